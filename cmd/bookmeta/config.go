// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bookmeta-cli/internal/config"
)

// configCmd is the `bookmeta config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bookmeta configuration",
	Long: `Manage bookmeta configuration.

Configuration is stored in:
  - Linux: ~/.config/bookmeta/config.cue
  - macOS: ~/Library/Application Support/bookmeta/config.cue
  - Windows: %APPDATA%\bookmeta\config.cue`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Printf("Config directory: %s\n", cfgDir)
			fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, path, err := config.LoadWithOptions(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("data_dir"), valueStyle.Render(cfg.DataDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("providers"), valueStyle.Render(strings.Join(cfg.Providers, " > ")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("http"))
	fmt.Printf("  timeout_seconds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.HTTP.TimeoutSeconds)))
	fmt.Printf("  fast_timeout_seconds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.HTTP.FastTimeoutSeconds)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("server"))
	fmt.Printf("  host: %s\n", valueStyle.Render(cfg.Server.Host))
	fmt.Printf("  port: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Server.Port)))
	fmt.Printf("  open_browser: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Server.OpenBrowser)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("classify"))
	fmt.Printf("  llm_enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Classify.LLMEnabled)))
	fmt.Printf("  llm_model: %s\n", valueStyle.Render(cfg.Classify.LLMModel))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}
