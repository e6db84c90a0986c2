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

import "context"

// Capability is the single narrow LLM operation every agent depends on.
// Concrete wire protocols and provider SDKs live behind this interface;
// nothing above this package knows which provider answered a turn.
type Capability interface {
	// Complete sends req and returns the provider's response, or a
	// *errors.ProviderError (retriable) or *errors.ValidationError
	// (fatal for the calling turn) from the errors package.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Factory builds a Capability for a given model/provider pair, closing
// over provider credentials loaded once at process startup.
type Factory func(provider, model string) (Capability, error)
