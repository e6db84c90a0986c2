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

package agent

import (
	"path/filepath"

	"github.com/kadirpekel/debatekit/config"
	"github.com/kadirpekel/debatekit/llms"
	"github.com/kadirpekel/debatekit/prompt"
	"github.com/kadirpekel/debatekit/tools"
	"github.com/kadirpekel/debatekit/tracing"
)

// New builds an Agent from its configuration, resolving prompts relative
// to configDir and registering toolReg as its private tool set.
func New(cfg config.AgentConfig, configDir string, capability llms.Capability, toolReg *tools.Registry, tracer *tracing.Manager, debateCfg config.DebateConfig) *Agent {
	role := cfg.Role.Normalize()

	systemPrompt := prompt.Resolve(cfg.ID+":system", configDir, cfg.SystemPromptPath, DefaultSystemPrompt(role, cfg.Name))
	summaryPrompt := prompt.Resolve(cfg.ID+":summary", configDir, cfg.SummaryPromptPath, DefaultSummaryPrompt(role))
	clarificationPrompt := prompt.Resolve(cfg.ID+":clarification", configDir, cfg.ClarificationPromptPath, DefaultClarificationPrompt(role))

	summarization := debateCfg.Summarization
	if cfg.Summarization != nil {
		summarization = cfg.Summarization
	}
	if summarization == nil {
		summarization = &config.SummarizationConfig{}
		summarization.SetDefaults()
	}

	if tracer == nil {
		tracer = tracing.NewManager(nil)
	}
	if toolReg == nil {
		toolReg = tools.NewRegistry()
	}

	return &Agent{
		ID:       cfg.ID,
		Name:     cfg.Name,
		Role:     role,
		Provider: cfg.Provider,
		Model:    cfg.Model,

		Capability: capability,
		Tools:      toolReg,
		Prompts: Prompts{
			System:        systemPrompt,
			Summary:       summaryPrompt,
			Clarification: clarificationPrompt,
		},
		RoleText: DefaultRolePrompts(),

		Temperature:        cfg.Temperature,
		Summarization:      *summarization,
		ToolCallLimit:      debateCfg.ToolCallLimit,
		IncludeFullHistory: debateCfg.IncludeFullHistory,

		Tracer: tracer,
	}
}

// NewJudge builds a Judge from its AgentConfig, identical to New but
// wrapping the result.
func NewJudge(cfg config.AgentConfig, configDir string, capability llms.Capability, toolReg *tools.Registry, tracer *tracing.Manager, debateCfg config.DebateConfig) *Judge {
	return &Judge{Agent: New(cfg, configDir, capability, toolReg, tracer, debateCfg)}
}

// PromptSourcesFor returns the PromptSource records for a, for the
// orchestrator to persist via setPromptSources.
func PromptSourcesFor(a *Agent) []promptSourceEntry {
	return []promptSourceEntry{
		{AgentID: a.ID, Label: "system", Resolved: a.Prompts.System},
		{AgentID: a.ID, Label: "summary", Resolved: a.Prompts.Summary},
		{AgentID: a.ID, Label: "clarification", Resolved: a.Prompts.Clarification},
	}
}

type promptSourceEntry struct {
	AgentID  string
	Label    string
	Resolved prompt.Resolved
}

// AbsConfigDir resolves a possibly-relative configuration directory to an
// absolute path once at startup, so later prompt resolution is stable
// regardless of process working-directory changes.
func AbsConfigDir(configPath string) string {
	dir := filepath.Dir(configPath)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
