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

package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LangfuseCredentials holds the environment-derived settings spec §6.3
// requires when debate.trace=langfuse.
type LangfuseCredentials struct {
	SecretKey string
	PublicKey string
	BaseURL   string
}

// LoadLangfuseCredentials reads LANGFUSE_SECRET_KEY/LANGFUSE_PUBLIC_KEY/
// LANGFUSE_BASE_URL. A missing secret or public key means tracing is
// disabled; the caller logs a warning, per spec.
func LoadLangfuseCredentials() (LangfuseCredentials, bool) {
	creds := LangfuseCredentials{
		SecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
		PublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
		BaseURL:   os.Getenv("LANGFUSE_BASE_URL"),
	}
	if creds.BaseURL == "" {
		creds.BaseURL = "https://cloud.langfuse.com"
	}
	if creds.SecretKey == "" || creds.PublicKey == "" {
		return creds, false
	}
	return creds, true
}

// LoadDotEnv loads a local .env file if present, matching the teacher's use
// of godotenv for local credential development. Absence of the file is not
// an error.
func LoadDotEnv(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("config: failed to load .env file", "path", path, "error", err)
	}
}
