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
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kadirpekel/debatekit/agent"
	"github.com/kadirpekel/debatekit/config"
	debateerrors "github.com/kadirpekel/debatekit/errors"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/orchestrator"
	"github.com/kadirpekel/debatekit/state"
	"github.com/kadirpekel/debatekit/tools"
	"github.com/kadirpekel/debatekit/tracing"
)

// debateStoreDir is the fixed location spec §6.1 mandates for persisted
// debate documents.
const debateStoreDir = "./debates"

// engine bundles everything a run/resume invocation needs, built once from
// the configuration document and the process environment.
type engine struct {
	Orchestrator  *orchestrator.Orchestrator
	Store         *state.Store
	Config        *config.Config
	ConfigDir     string
	PromptSources []state.PromptSource
	Metrics       *tracing.Metrics
}

func buildEngine(ctx context.Context, cli *CLI, contextDir string) (*engine, error) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	configDir := agent.AbsConfigDir(configPath)

	store, err := state.NewStore(debateStoreDir)
	if err != nil {
		return nil, err
	}

	providers := llms.NewProviderRegistry(providerCredentialsFromEnv())
	tracer := tracing.BuildProvider(ctx, cfg.Debate.Trace, "debate")

	agents := make([]*agent.Agent, 0, len(cfg.Agents))
	var promptSources []state.PromptSource

	for _, ac := range cfg.Agents {
		if !ac.IsEnabled() {
			continue
		}
		capability, cErr := providers.Capability(ctx, ac.Provider)
		if cErr != nil {
			return nil, cErr
		}
		toolReg, tErr := buildToolRegistry(ac.Tools, contextDir)
		if tErr != nil {
			return nil, tErr
		}
		a := agent.New(ac, configDir, capability, toolReg, tracer, cfg.Debate)
		agents = append(agents, a)
		for _, ps := range agent.PromptSourcesFor(a) {
			promptSources = append(promptSources, state.PromptSource{
				AgentID: ps.AgentID,
				Label:   ps.Label,
				Source:  string(ps.Resolved.Source),
				AbsPath: ps.Resolved.AbsPath,
			})
		}
	}
	if len(agents) == 0 {
		return nil, debateerrors.NewValidationError("cmd.debate", "build_engine", "no enabled agents in configuration", nil)
	}

	judgeCapability, jErr := providers.Capability(ctx, cfg.Judge.Provider)
	if jErr != nil {
		return nil, jErr
	}
	judgeTools, jtErr := buildToolRegistry(cfg.Judge.Tools, contextDir)
	if jtErr != nil {
		return nil, jtErr
	}
	judge := agent.NewJudge(*cfg.Judge, configDir, judgeCapability, judgeTools, tracer, cfg.Debate)
	for _, ps := range agent.PromptSourcesFor(judge.Agent) {
		promptSources = append(promptSources, state.PromptSource{
			AgentID: ps.AgentID,
			Label:   ps.Label,
			Source:  string(ps.Resolved.Source),
			AbsPath: ps.Resolved.AbsPath,
		})
	}

	metrics := tracing.NewMetrics(prometheus.NewRegistry())
	orch := orchestrator.New(store, agents, judge, cfg.Debate, newMetricsHooks(metrics), tracer)

	return &engine{
		Orchestrator:  orch,
		Store:         store,
		Config:        cfg,
		ConfigDir:     configDir,
		PromptSources: promptSources,
		Metrics:       metrics,
	}, nil
}

func buildToolRegistry(refs []config.ToolRef, contextDir string) (*tools.Registry, error) {
	reg := tools.NewRegistry()
	for _, ref := range refs {
		switch ref.Name {
		case "file_read":
			reg.Register(tools.NewFileReadTool(contextDir, 0))
		case "list_files":
			reg.Register(tools.NewListFilesTool(contextDir))
		case "context_search":
			reg.Register(tools.NewContextSearchTool(0))
		default:
			return nil, debateerrors.NewValidationError("cmd.debate", "build_tool_registry", "unknown tool "+ref.Name, nil)
		}
	}
	return reg, nil
}

func providerCredentialsFromEnv() llms.ProviderCredentials {
	return llms.ProviderCredentials{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIHost:      os.Getenv("OPENAI_HOST"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicHost:   os.Getenv("ANTHROPIC_HOST"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		OllamaHost:      os.Getenv("OLLAMA_HOST"),
		MaxRetries:      3,
	}
}

// persistPromptSources records where each agent's resolved prompt text came
// from (spec §4.3), once the debate document exists.
func (e *engine) persistPromptSources(debateID string) error {
	if len(e.PromptSources) == 0 {
		return nil
	}
	_, err := e.Store.SetPromptSources(debateID, e.PromptSources, time.Now())
	return err
}
