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
	"fmt"

	"github.com/kadirpekel/debatekit/report"
	"github.com/kadirpekel/debatekit/state"
)

// ReportCmd renders a persisted debate document as Markdown.
type ReportCmd struct {
	DebateID string `arg:"" help:"The debate id to render."`
}

func (r *ReportCmd) Run(cli *CLI) error {
	store, err := state.NewStore(debateStoreDir)
	if err != nil {
		return err
	}
	md, err := report.Generate(store, r.DebateID)
	if err != nil {
		return err
	}
	fmt.Println(md)
	return nil
}
