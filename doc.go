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

// Package debatekit runs structured multi-agent debates: a roster of
// role-specific agents propose, critique, and refine answers to a problem
// statement over a fixed number of rounds, and a judge agent synthesizes
// the rounds into a final solution.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/kadirpekel/debatekit/cmd/debate@latest
//
// Run a debate against the built-in agent roster:
//
//	debate run "how should we shard this table?"
//
// Supply a configuration document to customize the roster, models, tools,
// and round count:
//
//	debate run "how should we shard this table?" --config debate-config.json
//
// # Using as a Go Library
//
// Import the packages directly:
//
//	import (
//	    "github.com/kadirpekel/debatekit/orchestrator"
//	    "github.com/kadirpekel/debatekit/agent"
//	    "github.com/kadirpekel/debatekit/config"
//	)
//
// # Architecture
//
// Each debate persists as a single JSON document in ./debates/<id>.json,
// written atomically after every mutation. An Orchestrator drives the
// round sequence (propose, critique, refine, summarize, synthesize)
// against a roster of Agents and a Judge, emitting best-effort progress
// hooks and OpenTelemetry spans throughout. A debate run by the
// state-machine orchestrator with interactive clarifications enabled
// suspends before round one and resumes once every emitted question has
// been answered; the classic orchestrator does not suspend.
//
// # License
//
// Apache-2.0 - see LICENSE for details.
package debatekit
