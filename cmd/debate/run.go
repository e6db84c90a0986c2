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

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kadirpekel/debatekit/state"
)

// RunCmd starts a new debate over Problem, optionally seeded with context
// read from ContextFile.
type RunCmd struct {
	Problem     string `arg:"" help:"The problem statement to debate."`
	ContextFile string `help:"Path to a file whose contents become the debate's context." type:"existingfile"`
	ContextDir  string `help:"Directory file-backed tools may read from." default:"."`
	JSON        bool   `help:"Print the final debate document as JSON instead of a summary."`
}

func (r *RunCmd) Run(cli *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	debateContext, err := r.readContext()
	if err != nil {
		return err
	}

	eng, err := buildEngine(ctx, cli, r.ContextDir)
	if err != nil {
		return err
	}

	debateID := state.NewDebateID(time.Now())

	var result *state.DebateState
	switch eng.Config.Debate.OrchestratorType {
	case "state-machine":
		execResult, rErr := eng.Orchestrator.RunDebate(ctx, r.Problem, debateContext, debateID)
		if rErr != nil {
			return rErr
		}
		if perr := eng.persistPromptSources(debateID); perr != nil {
			return perr
		}
		if execResult.Status == state.StatusSuspended {
			return printSuspended(execResult)
		}
		result = execResult.Result
		recordDebateOutcome(eng.Metrics, execResult.Status)
	default:
		result, err = eng.Orchestrator.RunClassic(ctx, debateID, r.Problem, debateContext)
		if err != nil {
			return err
		}
		if perr := eng.persistPromptSources(debateID); perr != nil {
			return perr
		}
		recordDebateOutcome(eng.Metrics, result.Status)
	}

	if r.JSON {
		raw, mErr := json.MarshalIndent(result, "", "  ")
		if mErr != nil {
			return mErr
		}
		fmt.Println(string(raw))
		return nil
	}

	fmt.Printf("debate %s completed (%d rounds)\n", result.ID, len(result.Rounds))
	if result.FinalSolution != nil {
		fmt.Printf("confidence: %d%%\n\n%s\n", result.FinalSolution.Confidence, result.FinalSolution.Description)
	}
	return nil
}

func (r *RunCmd) readContext() (string, error) {
	if r.ContextFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(r.ContextFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func printSuspended(result *state.ExecutionResult) error {
	fmt.Printf("debate %s suspended: %s\n", result.SuspendPayload.DebateID, result.SuspendReason)
	for _, q := range result.SuspendPayload.Questions {
		fmt.Printf("  %s: %s\n", q.ID, q.Question)
	}
	fmt.Println("\nanswer with: debate resume " + result.SuspendPayload.DebateID + " --answer id=text ...")
	return nil
}
