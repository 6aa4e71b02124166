// Package cli implements botctl, an operator tool that runs searches through
// the bot pipeline and reads query log analytics from the configured backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"helpdeskbot/internal/app"
	"helpdeskbot/internal/config"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to YAML bot config (overrides CONFIG_FILE)"`
	Catalog string `long:"catalog" description:"Catalog path or s3:// URI (overrides CATALOG_PATH)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Search *SearchCommand
	Top    *TopCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(out io.Writer) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "botctl"
	parser.LongDescription = "Run video searches through the helpdesk bot and inspect the query log."

	cmds := &commands{
		Search: &SearchCommand{globals: &globals, out: out},
		Top:    &TopCommand{globals: &globals, out: out},
	}

	parser.AddCommand("search", "Run a search through the bot", "Dispatch a search as the dialog engine would and print the resulting cards.", cmds.Search)
	parser.AddCommand("top", "Show the most searched terms", "Read the most searched terms from the configured query log backend.", cmds.Top)

	return parser, &globals, cmds
}

// Run is the main entry point for botctl using os.Args.
func Run(version string) error {
	return RunWithArgs(version, os.Args[1:], os.Stdout)
}

// RunWithArgs parses args and executes the matched subcommand, writing to out.
func RunWithArgs(version string, args []string, out io.Writer) error {
	// --version is valid without a subcommand
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(out, "botctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(out)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

// loadConfig applies the global overrides on top of the environment.
func (g *GlobalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Load()
	var err error
	if g.Config != "" {
		err = cfg.LoadYAMLFile(g.Config)
	} else {
		err = cfg.LoadYAMLConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if g.Catalog != "" {
		cfg.CatalogPath = g.Catalog
	}
	// Keep stdout for command output
	cfg.LogLevel = "error"
	return cfg, nil
}

func openApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}
