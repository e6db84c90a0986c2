package httpclient

import "time"

// RateLimitInfo carries the rate-limit hints a provider's HTTP response
// headers expose, extracted by the Parse*RateLimitHeaders helpers in
// parsers.go.
type RateLimitInfo struct {
	RetryAfter            time.Duration
	ResetTime             int64
	RequestsRemaining     int
	InputTokensRemaining  int
	OutputTokensRemaining int
	TokensRemaining       int
}
