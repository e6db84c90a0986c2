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

// Command debate is the CLI for the debate engine.
//
// Usage:
//
//	debate run "how should we shard this table?" --config debate-config.json
//	debate eval deb-20260101-120000-ab12
//	debate report deb-20260101-120000-ab12
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/debatekit/config"
)

// CLI defines the command-line interface (spec §6.4).
type CLI struct {
	Run    RunCmd    `cmd:"" help:"Run a new debate."`
	Report ReportCmd `cmd:"" help:"Render a debate's Markdown report."`
	Eval   EvalCmd   `cmd:"" help:"Check a persisted debate document against the testable invariants."`
	Resume ResumeCmd `cmd:"" help:"Resume a suspended debate with clarification answers."`

	Config string `short:"c" help:"Path to the configuration document." type:"path"`
}

func main() {
	config.LoadDotEnv("")

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("debate"),
		kong.Description("Multi-agent structured debate engine"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
