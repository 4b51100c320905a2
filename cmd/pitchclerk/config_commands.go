package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pitchclerk/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set api_key (or export PITCHCLERK_API_KEY) before signing in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

type configView struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	BaseURL        string `json:"base_url"`
	APIKeySet      bool   `json:"api_key_set"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	StateDir       string `json:"state_dir"`
	LogDir         string `json:"log_dir"`
	SessionDB      string `json:"session_db"`
	LogFormat      string `json:"log_format"`
	LogLevel       string `json:"log_level"`
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			view := configView{
				Path:           resolved,
				Exists:         exists,
				BaseURL:        cfg.API.BaseURL,
				APIKeySet:      cfg.API.APIKey != "",
				TimeoutSeconds: cfg.API.TimeoutSeconds,
				StateDir:       cfg.Paths.StateDir,
				LogDir:         cfg.Paths.LogDir,
				SessionDB:      cfg.SessionDBPath(),
				LogFormat:      cfg.Logging.Format,
				LogLevel:       cfg.Logging.Level,
			}
			return ctx.emit(cmd, view, func() error {
				source := view.Path
				if !view.Exists {
					source += " (not found; defaults in use)"
				}
				timeout := strconv.Itoa(view.TimeoutSeconds) + "s"
				if view.TimeoutSeconds == 0 {
					timeout = "disabled"
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDetails("Configuration", [][2]string{
					{"Config file", source},
					{"API base URL", view.BaseURL},
					{"API key", map[bool]string{true: "set", false: "not set"}[view.APIKeySet]},
					{"Timeout", timeout},
					{"Session DB", view.SessionDB},
					{"Log directory", view.LogDir},
					{"Logging", view.LogFormat + "/" + view.LogLevel},
				}))
				return nil
			})
		},
	}
}
