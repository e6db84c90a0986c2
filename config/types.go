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

// Package config loads and validates the debate engine's configuration
// document (spec §6.2): the agent roster, the judge, and debate-wide
// settings.
package config

import "time"

// Role is one of the fixed debate personas (spec §3). An unrecognized
// value defaults to RoleArchitect.
type Role string

const (
	RoleArchitect     Role = "architect"
	RolePerformance   Role = "performance"
	RoleSecurity      Role = "security"
	RoleTesting       Role = "testing"
	RoleKISS          Role = "kiss"
	RoleGeneralist    Role = "generalist"
	RoleDataModeling  Role = "datamodeling"
)

// Normalize returns r if it is a recognized role, else RoleArchitect.
func (r Role) Normalize() Role {
	switch r {
	case RoleArchitect, RolePerformance, RoleSecurity, RoleTesting, RoleKISS, RoleGeneralist, RoleDataModeling:
		return r
	default:
		return RoleArchitect
	}
}

// ToolRef names a tool an agent may invoke.
type ToolRef struct {
	Name string `json:"name" mapstructure:"name"`
}

// SummarizationConfig controls per-agent history summarization (spec §3).
type SummarizationConfig struct {
	Enabled     bool    `json:"enabled" mapstructure:"enabled"`
	Threshold   int     `json:"threshold" mapstructure:"threshold"`
	MaxLength   int     `json:"maxLength" mapstructure:"maxLength"`
	Method      string  `json:"method" mapstructure:"method"`
	Temperature float64 `json:"temperature,omitempty" mapstructure:"temperature"`
}

// SetDefaults applies built-in defaults to a zero-value SummarizationConfig.
// Temperature defaults low: summarization favors a faithful condensation
// over the conversational variety an agent's own turns want.
func (s *SummarizationConfig) SetDefaults() {
	if s.Threshold == 0 {
		s.Threshold = 4000
	}
	if s.MaxLength == 0 {
		s.MaxLength = 800
	}
	if s.Method == "" {
		s.Method = "llm"
	}
	if s.Temperature == 0 {
		s.Temperature = 0.2
	}
}

// Validate checks SummarizationConfig for internal consistency.
func (s *SummarizationConfig) Validate() error {
	if s.Threshold < 0 {
		return newConfigError("summarization", "threshold must be non-negative")
	}
	if s.MaxLength <= 0 {
		return newConfigError("summarization", "maxLength must be positive")
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return newConfigError("summarization", "temperature must be in [0,2]")
	}
	return nil
}

// AgentConfig is one entry in the agent roster (spec §3, §6.2).
type AgentConfig struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Role     Role   `json:"role" mapstructure:"role"`
	Model    string `json:"model" mapstructure:"model"`
	Provider string `json:"provider" mapstructure:"provider"`

	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	Enabled     *bool   `json:"enabled,omitempty" mapstructure:"enabled"`

	SystemPromptPath        string `json:"systemPromptPath,omitempty" mapstructure:"systemPromptPath"`
	SummaryPromptPath       string `json:"summaryPromptPath,omitempty" mapstructure:"summaryPromptPath"`
	ClarificationPromptPath string `json:"clarificationPromptPath,omitempty" mapstructure:"clarificationPromptPath"`

	Tools         []ToolRef            `json:"tools,omitempty" mapstructure:"tools"`
	Summarization *SummarizationConfig `json:"summarization,omitempty" mapstructure:"summarization"`
}

// IsEnabled returns whether the agent participates in the debate. Defaults
// to true when unset.
func (a *AgentConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// SetDefaults applies built-in defaults to an AgentConfig.
func (a *AgentConfig) SetDefaults() {
	a.Role = a.Role.Normalize()
	if a.Provider == "" {
		a.Provider = "openai"
	}
	if a.Temperature == 0 {
		a.Temperature = 0.7
	}
	if a.Summarization != nil {
		a.Summarization.SetDefaults()
	}
}

// Validate checks an AgentConfig for errors.
func (a *AgentConfig) Validate() error {
	if a.ID == "" {
		return newConfigError("agent", "id is required")
	}
	if a.Model == "" {
		return newConfigError("agent", "model is required for agent "+a.ID)
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return newConfigError("agent", "temperature must be in [0,2] for agent "+a.ID)
	}
	if a.Summarization != nil {
		if err := a.Summarization.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DebateConfig is the debate-wide settings block (spec §3, §6.2).
type DebateConfig struct {
	Rounds                    int                  `json:"rounds" mapstructure:"rounds"`
	TerminationCondition      string               `json:"terminationCondition,omitempty" mapstructure:"terminationCondition"`
	SynthesisMethod           string               `json:"synthesisMethod,omitempty" mapstructure:"synthesisMethod"`
	IncludeFullHistory        bool                 `json:"includeFullHistory" mapstructure:"includeFullHistory"`
	TimeoutPerRound           time.Duration        `json:"timeoutPerRound" mapstructure:"timeoutPerRound"`
	Summarization             *SummarizationConfig `json:"summarization,omitempty" mapstructure:"summarization"`
	InteractiveClarifications bool                 `json:"interactiveClarifications" mapstructure:"interactiveClarifications"`
	ClarificationsMaxPerAgent int                  `json:"clarificationsMaxPerAgent,omitempty" mapstructure:"clarificationsMaxPerAgent"`
	Trace                     string               `json:"trace,omitempty" mapstructure:"trace"`
	OrchestratorType          string               `json:"orchestratorType,omitempty" mapstructure:"orchestratorType"`
	ToolCallLimit             int                  `json:"toolCallLimit,omitempty" mapstructure:"toolCallLimit"`
}

// SetDefaults applies built-in defaults to a DebateConfig.
func (d *DebateConfig) SetDefaults() {
	if d.Rounds == 0 {
		d.Rounds = 2
	}
	if d.TerminationCondition == "" {
		d.TerminationCondition = "rounds"
	}
	if d.SynthesisMethod == "" {
		d.SynthesisMethod = "judge"
	}
	if d.TimeoutPerRound == 0 {
		d.TimeoutPerRound = 5 * time.Minute
	}
	if d.Summarization == nil {
		d.Summarization = &SummarizationConfig{}
	}
	d.Summarization.SetDefaults()
	if d.ClarificationsMaxPerAgent == 0 {
		d.ClarificationsMaxPerAgent = 3
	}
	if d.OrchestratorType == "" {
		d.OrchestratorType = "classic"
	}
	if d.ToolCallLimit == 0 {
		d.ToolCallLimit = 8
	}
}

// Validate checks a DebateConfig for errors.
func (d *DebateConfig) Validate() error {
	if d.Rounds < 1 {
		return newConfigError("debate", "rounds must be >= 1")
	}
	if d.ToolCallLimit < 1 {
		return newConfigError("debate", "toolCallLimit must be >= 1")
	}
	switch d.OrchestratorType {
	case "classic", "state-machine":
	default:
		return newConfigError("debate", "orchestratorType must be classic or state-machine")
	}
	if d.Trace != "" && d.Trace != "none" && d.Trace != "otlp" && d.Trace != "stdout" && d.Trace != "langfuse" {
		return newConfigError("debate", "unrecognized trace backend "+d.Trace)
	}
	return d.Summarization.Validate()
}

// Config is the top-level configuration document at ./debate-config.json
// (spec §6.2).
type Config struct {
	Agents []AgentConfig `json:"agents,omitempty" mapstructure:"agents"`
	Judge  *AgentConfig  `json:"judge,omitempty" mapstructure:"judge"`
	Debate DebateConfig  `json:"debate" mapstructure:"debate"`
}

// SetDefaults applies built-in defaults to a Config, including the built-in
// agent roster and judge when the document omits them.
func (c *Config) SetDefaults() {
	if len(c.Agents) == 0 {
		c.Agents = defaultAgents()
	}
	for i := range c.Agents {
		c.Agents[i].SetDefaults()
	}
	if c.Judge == nil {
		j := defaultJudge()
		c.Judge = &j
	}
	c.Judge.SetDefaults()
	c.Debate.SetDefaults()
}

// Validate checks the full Config for errors.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return newConfigError("config", "at least one agent is required")
	}
	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ID] {
			return newConfigError("config", "duplicate agent id "+a.ID)
		}
		seen[a.ID] = true
	}
	if err := c.Judge.Validate(); err != nil {
		return err
	}
	return c.Debate.Validate()
}

func defaultAgents() []AgentConfig {
	return []AgentConfig{
		{ID: "architect", Name: "Architect", Role: RoleArchitect, Model: "gpt-4o-mini", Provider: "openai"},
	}
}

func defaultJudge() AgentConfig {
	return AgentConfig{ID: "judge", Name: "Judge", Role: RoleGeneralist, Model: "gpt-4o-mini", Provider: "openai"}
}
