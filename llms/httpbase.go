// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llms

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/kadirpekel/debatekit/internal/httpclient"
)

// RetryStrategy classifies how an HTTP-backed provider response should be
// retried, mirroring the header-driven strategy the teacher's OpenAI and
// Anthropic adapters use.
type RetryStrategy int

const (
	NoRetry RetryStrategy = iota
	ConservativeRetry
	SmartRetry
)

func classifyStatus(status int) RetryStrategy {
	switch {
	case status == http.StatusTooManyRequests:
		return SmartRetry
	case status >= 500:
		return ConservativeRetry
	default:
		return NoRetry
	}
}

// httpRequester issues one HTTP POST and returns the raw body, the retry
// strategy implied by the status code, and the rate-limit headers parsed by
// the supplied parser (provider-specific header names).
func httpRequester(client *http.Client, req *http.Request, parse func(http.Header) httpclient.RateLimitInfo) ([]byte, RetryStrategy, httpclient.RateLimitInfo, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, NoRetry, httpclient.RateLimitInfo{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NoRetry, httpclient.RateLimitInfo{}, fmt.Errorf("reading response: %w", err)
	}

	strategy := classifyStatus(resp.StatusCode)
	info := parse(resp.Header)

	if resp.StatusCode >= 400 {
		return body, strategy, info, &httpclient.RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			RetryAfter: info.RetryAfter,
		}
	}

	return body, NoRetry, info, nil
}

// doWithBackoff resends a request up to maxRetries times, honoring
// rate-limit headers for SmartRetry (exponential backoff when no
// Retry-After is given) and a linear (2+attempt)-second delay for
// ConservativeRetry. This is the HTTP transport's own retry budget; it is
// independent of, and sits below, the agent-level single-retry policy the
// orchestrator applies to a whole capability turn.
func doWithBackoff(client *http.Client, build func() (*http.Request, error), parse func(http.Header) httpclient.RateLimitInfo, maxRetries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}

		body, strategy, info, err := httpRequester(client, req, parse)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if strategy == NoRetry || attempt >= maxRetries {
			return body, err
		}

		var delay time.Duration
		switch strategy {
		case SmartRetry:
			if info.RetryAfter > 0 {
				delay = info.RetryAfter
			} else {
				delay = time.Duration(math.Pow(2, float64(attempt))) * time.Second
			}
		case ConservativeRetry:
			delay = time.Duration(2+attempt) * time.Second
		}

		slog.Warn("llms: retrying HTTP capability call", "attempt", attempt+1, "max_retries", maxRetries, "delay", delay, "error", err)
		time.Sleep(delay)
	}
	return nil, lastErr
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
