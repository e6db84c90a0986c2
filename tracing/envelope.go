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

package tracing

import "encoding/json"

// parseEnvelopeStatus inspects a tool result string for the
// {"status":...,"error":...} shape without importing the tools package
// (which would create an import cycle, since tools will eventually accept
// a tracing-wrapped registry). A non-JSON envelope returns ok=false so the
// caller records it as raw output instead.
func parseEnvelopeStatus(raw string) (status, errMsg string, ok bool) {
	var env struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return "", "", false
	}
	if env.Status == "" {
		return "", "", false
	}
	return env.Status, env.Error, true
}
