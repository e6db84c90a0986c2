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
	"strings"

	debateerrors "github.com/kadirpekel/debatekit/errors"
)

// ResumeCmd answers a suspended debate's clarifying questions and runs it
// to completion.
type ResumeCmd struct {
	DebateID   string   `arg:"" help:"The suspended debate's id."`
	Answer     []string `help:"A question id=answer text pair; repeat for each question." sep:"none"`
	ContextDir string   `help:"Directory file-backed tools may read from." default:"."`
	JSON       bool     `help:"Print the final debate document as JSON instead of a summary."`
}

func (r *ResumeCmd) Run(cli *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	answers, err := parseAnswers(r.Answer)
	if err != nil {
		return err
	}

	eng, err := buildEngine(ctx, cli, r.ContextDir)
	if err != nil {
		return err
	}

	execResult, err := eng.Orchestrator.Resume(ctx, r.DebateID, answers)
	if err != nil {
		return err
	}
	recordDebateOutcome(eng.Metrics, execResult.Status)

	if r.JSON {
		raw, mErr := json.MarshalIndent(execResult.Result, "", "  ")
		if mErr != nil {
			return mErr
		}
		fmt.Println(string(raw))
		return nil
	}

	fmt.Printf("debate %s resumed: status=%s\n", r.DebateID, execResult.Status)
	if execResult.Result != nil && execResult.Result.FinalSolution != nil {
		fmt.Printf("confidence: %d%%\n\n%s\n", execResult.Result.FinalSolution.Confidence, execResult.Result.FinalSolution.Description)
	}
	return nil
}

func parseAnswers(raw []string) (map[string]string, error) {
	answers := make(map[string]string, len(raw))
	for _, item := range raw {
		idx := strings.Index(item, "=")
		if idx <= 0 {
			return nil, debateerrors.NewValidationError("cmd.debate", "parse_answers",
				fmt.Sprintf("malformed --answer %q, expected id=text", item), nil)
		}
		answers[item[:idx]] = item[idx+1:]
	}
	return answers, nil
}
