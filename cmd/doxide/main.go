// Package main is the entry point for the doxide CLI application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	dxcli "github.com/NikitaCOEUR/doxide/internal/cli"
	"github.com/NikitaCOEUR/doxide/internal/trace"
	"github.com/NikitaCOEUR/doxide/pkg/version"
)

func main() {
	defer trace.Init()()

	app := newApp(paths{
		cache: dxcli.DefaultCachePath(),
		trust: dxcli.DefaultTrustPath(),
	}, os.Stdin, os.Stdout)
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fileArg returns the source file every document command operates on
func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", fmt.Errorf("file argument required")
	}
	return cmd.Args().First(), nil
}

// paths locates the state doxide keeps between runs
type paths struct {
	cache string
	trust string
}

//nolint:gocyclo // Command table complexity is acceptable
func newApp(state paths, stdin io.Reader, stdout io.Writer) *cli.Command {
	cachePath := state.cache
	common := func(cmd *cli.Command) dxcli.Common {
		return dxcli.Common{
			LogLevel:   cmd.String("log-level"),
			ConfigPath: cmd.String("config"),
			CachePath:  cachePath,
			TrustPath:  state.trust,
			Stdout:     stdout,
		}
	}
	trustParams := func(cmd *cli.Command) dxcli.TrustParams {
		return dxcli.TrustParams{
			TrustPath: state.trust,
			LogLevel:  cmd.String("log-level"),
			Dir:       cmd.Args().First(),
			Stdout:    stdout,
		}
	}

	lineFlag := func() cli.Flag {
		return &cli.IntFlag{
			Name:    "line",
			Aliases: []string{"l"},
			Usage:   "1-based line of the function",
		}
	}

	alternative := func(run func(dxcli.AlternativeParams) error) cli.ActionFunc {
		return func(_ context.Context, cmd *cli.Command) error {
			file, err := fileArg(cmd)
			if err != nil {
				return err
			}
			return run(dxcli.AlternativeParams{
				Common: common(cmd),
				File:   file,
				Line:   cmd.Int("line"),
			})
		}
	}

	return &cli.Command{
		Name:                  "doxide",
		Usage:                 "Docstrings generated for your functions",
		Version:               version.Version,
		EnableShellCompletion: true,
		Writer:                stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("DOXIDE_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file applied after every other layer",
				Sources: cli.EnvVars("DOXIDE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "lens",
				Usage:     "List the Generate actions of a file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print lenses as JSON"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					file, err := fileArg(cmd)
					if err != nil {
						return err
					}
					_, err = dxcli.Lens(ctx, dxcli.LensParams{
						Common: common(cmd),
						File:   file,
						JSON:   cmd.Bool("json"),
					})
					return err
				},
			},
			{
				Name:      "generate",
				Usage:     "Generate a docstring for a function",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					lineFlag(),
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Document every function without a docstring",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "With --all, also document functions that already have one",
					},
					&cli.BoolFlag{
						Name:    "write",
						Aliases: []string{"w"},
						Usage:   "Insert the docstrings into the file",
					},
					&cli.BoolFlag{Name: "json", Usage: "Print results as JSON"},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Value:   dxcli.DefaultJobs,
						Usage:   "Concurrent completion requests with --all",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					file, err := fileArg(cmd)
					if err != nil {
						return err
					}
					_, err = dxcli.Generate(ctx, dxcli.GenerateParams{
						Common: common(cmd),
						File:   file,
						Line:   cmd.Int("line"),
						All:    cmd.Bool("all"),
						Force:  cmd.Bool("force"),
						Write:  cmd.Bool("write"),
						JSON:   cmd.Bool("json"),
						Jobs:   cmd.Int("jobs"),
					})
					return err
				},
			},
			{
				Name:  "format",
				Usage: "Format a raw completion read from stdin as a docstring",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Language id (detected from --source when omitted)",
					},
					&cli.StringFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "File holding the function text",
					},
					&cli.IntFlag{
						Name:  "tab-size",
						Usage: "Spaces per indent level (overrides editor.tabSize)",
					},
					&cli.BoolFlag{
						Name:  "tabs",
						Usage: "Indent with tabs",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := dxcli.Format(dxcli.FormatParams{
						Common:     common(cmd),
						Lang:       cmd.String("lang"),
						SourcePath: cmd.String("source"),
						TabSize:    cmd.Int("tab-size"),
						Tabs:       cmd.Bool("tabs"),
						Stdin:      stdin,
					})
					return err
				},
			},
			{
				Name:      "next",
				Usage:     "Show the next stored alternative",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{lineFlag()},
				Action:    alternative(dxcli.Next),
			},
			{
				Name:      "previous",
				Usage:     "Show the previous stored alternative",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{lineFlag()},
				Action:    alternative(dxcli.Previous),
			},
			{
				Name:      "accept",
				Usage:     "Insert the current alternative into the file",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{lineFlag()},
				Action:    alternative(dxcli.Accept),
			},
			{
				Name:      "allow",
				Usage:     "Trust the project config of a directory to redirect completions",
				ArgsUsage: "[dir]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Allow(trustParams(cmd))
				},
			},
			{
				Name:      "revoke",
				Usage:     "Withdraw trust from the project config of a directory",
				ArgsUsage: "[dir]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Revoke(trustParams(cmd))
				},
			},
			{
				Name:  "trusted",
				Usage: "List trusted project configs",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Trusted(trustParams(cmd))
				},
			},
			{
				Name:  "status",
				Usage: "Show the resolved configuration and pending alternatives",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Status(dxcli.StatusParams{
						ConfigPath: cmd.String("config"),
						CachePath:  cachePath,
						Stdout:     stdout,
					})
				},
			},
			{
				Name:  "init",
				Usage: "Create a sample project file in current folder or global config",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Create global config file instead of local",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Init(dxcli.InitParams{Global: cmd.Bool("global"), Stdout: stdout})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a doxide configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Validate(dxcli.ValidateParams{Path: cmd.Args().First(), Stdout: stdout})
				},
			},
			{
				Name:  "edit",
				Usage: "Edit or create a doxide configuration file in current directory or global config",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "global",
						Aliases: []string{"g"},
						Usage:   "Edit global config file instead of local",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Edit(dxcli.EditParams{Global: cmd.Bool("global"), Stdout: stdout})
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for doxide configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" {
						outputPath = cmd.Args().First()
					}
					return dxcli.Schema(outputPath, stdout)
				},
			},
			{
				Name:      "clean",
				Usage:     "Drop pending alternatives",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "all",
						Aliases: []string{"a"},
						Usage:   "Clear every pending alternative instead of those under the current directory",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return dxcli.Clean(dxcli.CleanParams{
						CachePath: cachePath,
						LogLevel:  cmd.String("log-level"),
						All:       cmd.Bool("all"),
						File:      cmd.Args().First(),
						Stdout:    stdout,
					})
				},
			},
		},
	}
}
