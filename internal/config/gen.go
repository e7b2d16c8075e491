// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateCUE renders a Config as a CUE document matching the embedded
// schema, suitable for writing to config.cue.
func GenerateCUE(cfg *Config) string {
	var b strings.Builder

	b.WriteString("// bookmeta configuration\n")
	b.WriteString("// See 'bookmeta config --help' for available options.\n\n")

	if cfg.DataDir != "" {
		fmt.Fprintf(&b, "data_dir: %q\n", cfg.DataDir)
	}

	b.WriteString("providers: [")
	for i, p := range cfg.Providers {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", p)
	}
	b.WriteString("]\n\n")

	b.WriteString("http: {\n")
	fmt.Fprintf(&b, "\tuser_agent:           %q\n", cfg.HTTP.UserAgent)
	fmt.Fprintf(&b, "\ttimeout_seconds:      %d\n", cfg.HTTP.TimeoutSeconds)
	fmt.Fprintf(&b, "\tfast_timeout_seconds: %d\n", cfg.HTTP.FastTimeoutSeconds)
	b.WriteString("}\n\n")

	b.WriteString("server: {\n")
	fmt.Fprintf(&b, "\thost:         %q\n", cfg.Server.Host)
	fmt.Fprintf(&b, "\tport:         %d\n", cfg.Server.Port)
	fmt.Fprintf(&b, "\topen_browser: %v\n", cfg.Server.OpenBrowser)
	b.WriteString("}\n\n")

	b.WriteString("classify: {\n")
	fmt.Fprintf(&b, "\tllm_enabled: %v\n", cfg.Classify.LLMEnabled)
	fmt.Fprintf(&b, "\tllm_model:   %q\n", cfg.Classify.LLMModel)
	b.WriteString("}\n")

	return b.String()
}

// CreateDefaultConfig writes a default config.cue into the configuration
// directory (or dir when non-empty). Refuses to overwrite an existing file.
func CreateDefaultConfig(dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, fmt.Errorf("config file already exists: %s", path)
	}

	defaults := DefaultConfig()
	if err := os.WriteFile(path, []byte(GenerateCUE(defaults)), 0o644); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return path, nil
}
