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
	"context"
	"fmt"

	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/registry"
)

// ProviderCredentials holds the process-scoped, environment-derived
// credentials each provider factory closes over. Loaded once at startup
// (spec §5's only legitimate non-tracing global state).
type ProviderCredentials struct {
	OpenAIAPIKey    string
	OpenAIHost      string
	AnthropicAPIKey string
	AnthropicHost   string
	GeminiAPIKey    string
	OllamaHost      string
	MaxRetries      int
}

// ProviderRegistry resolves a provider name to a Capability, building each
// concrete adapter lazily and caching it by provider name.
type ProviderRegistry struct {
	creds      ProviderCredentials
	byProvider *registry.BaseRegistry[Capability]
}

// NewProviderRegistry builds a ProviderRegistry over the given credentials.
func NewProviderRegistry(creds ProviderCredentials) *ProviderRegistry {
	return &ProviderRegistry{creds: creds, byProvider: registry.NewBaseRegistry[Capability]()}
}

// Capability returns the cached Capability for provider, constructing it on
// first use.
func (r *ProviderRegistry) Capability(ctx context.Context, provider string) (Capability, error) {
	if cap, ok := r.byProvider.Get(provider); ok {
		return cap, nil
	}

	cap, err := r.build(ctx, provider)
	if err != nil {
		return nil, err
	}
	// Best effort: another goroutine may have raced us; either registration
	// wins, the Capability itself is stateless per-call.
	_ = r.byProvider.Register(provider, cap)
	return cap, nil
}

func (r *ProviderRegistry) build(ctx context.Context, provider string) (Capability, error) {
	switch provider {
	case "openai", "":
		return NewOpenAICapability(r.creds.OpenAIAPIKey, r.creds.OpenAIHost, r.creds.MaxRetries), nil
	case "anthropic":
		return NewAnthropicCapability(r.creds.AnthropicAPIKey, r.creds.AnthropicHost, r.creds.MaxRetries, 0), nil
	case "gemini", "google":
		return NewGeminiCapability(ctx, r.creds.GeminiAPIKey)
	case "ollama":
		return NewOllamaCapability(r.creds.OllamaHost), nil
	default:
		return nil, debateerrors.NewValidationError("llms.registry", "build", fmt.Sprintf("unknown provider %q", provider), nil)
	}
}
