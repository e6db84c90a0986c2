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

package main

import debateerrors "github.com/kadirpekel/debatekit/errors"

// exitCodeFor translates the error taxonomy into a process exit code
// (spec §6.4): 0 success, 2 invalid arguments, non-zero otherwise.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*debateerrors.ValidationError); ok {
		return 2
	}
	return 1
}
