package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fmstat/internal"
	pkgconfig "github.com/starford/fmstat/pkg/config"
)

var version = "0.1.0"

// loadConfig builds the configuration from defaults, the optional config
// file and the global flags, in that order of precedence.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("vault-path") {
		cfg.Vault.Path = cmd.String("vault-path")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "fmstat",
		Usage:   "Index and aggregate the YAML frontmatter of a Markdown vault",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "fmstat.yaml",
				Value:       "fmstat.yaml",
				Sources:     cli.EnvVars("FMSTAT_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault-path",
				Usage:   "Path to the vault, overrides vault.path",
				Sources: cli.EnvVars("FMSTAT_VAULT_PATH"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides app.log_level",
			},
		},
		Commands: []*cli.Command{
			statsCommand(),
			listCommand(),
			valuesCommand(),
			childCountCommand(),
			hubsCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
