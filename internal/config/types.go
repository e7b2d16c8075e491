// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the resolved bookmeta configuration.
	Config struct {
		// DataDir is the root of the data tree (database, covers, inbox).
		// Empty means "<config dir>/data", resolved during Load.
		DataDir string `mapstructure:"data_dir"`

		// Providers is the ordered metadata source chain.
		Providers []string `mapstructure:"providers"`

		HTTP      HTTPConfig      `mapstructure:"http"`
		Server    ServerConfig    `mapstructure:"server"`
		Preflight PreflightConfig `mapstructure:"preflight"`
		Hooks     HooksConfig     `mapstructure:"hooks"`
		Classify  ClassifyConfig  `mapstructure:"classify"`
		UI        UIConfig        `mapstructure:"ui"`
	}

	// HTTPConfig controls outbound metadata and cover requests.
	HTTPConfig struct {
		UserAgent string `mapstructure:"user_agent"`
		// TimeoutSeconds bounds detail-page and cover downloads.
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
		// FastTimeoutSeconds bounds search/probe requests.
		FastTimeoutSeconds int `mapstructure:"fast_timeout_seconds"`
	}

	// ServerConfig controls the web UI server.
	ServerConfig struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		// OpenBrowser controls whether 'bookmeta up' opens the web UI
		// in the default browser after the server starts.
		OpenBrowser bool `mapstructure:"open_browser"`
	}

	// PreflightConfig lists external tools that must be present on PATH
	// before 'bookmeta up' proceeds.
	PreflightConfig struct {
		Tools []string `mapstructure:"tools"`
	}

	// HooksConfig holds user commands run at launch time.
	HooksConfig struct {
		// PreLaunch commands run sequentially through the embedded POSIX
		// shell before the server starts. A failing hook aborts the launch.
		PreLaunch []string `mapstructure:"pre_launch"`
	}

	// ClassifyConfig controls the CLC classifier tiers.
	ClassifyConfig struct {
		LLMEnabled bool   `mapstructure:"llm_enabled"`
		LLMModel   string `mapstructure:"llm_model"`
	}

	// UIConfig holds terminal UI preferences.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultUserAgent mirrors a mainstream desktop browser; several metadata
// sites reject requests with obviously non-browser agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultConfig returns the built-in defaults applied before any config
// file or environment override.
func DefaultConfig() *Config {
	return &Config{
		Providers: []string{"douban", "googlebooks", "openlibrary"},
		HTTP: HTTPConfig{
			UserAgent:          DefaultUserAgent,
			TimeoutSeconds:     12,
			FastTimeoutSeconds: 8,
		},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8501,
			OpenBrowser: true,
		},
		Classify: ClassifyConfig{
			LLMEnabled: true,
			LLMModel:   "gemini-2.0-flash",
		},
	}
}
