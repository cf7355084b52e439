package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"cparser/config"
	"cparser/internals"
	"cparser/logger"
	"cparser/printer"
	"cparser/repl"

	"github.com/spf13/cobra"
)

const defaultSource = "example.txt"

var errDiagnostics = errors.New("diagnostics found")

func sourcePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultSource
}

// NewRootCommand builds the cli, out receives program output and diagnostics, errOut everything else.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var cfgFile string

	setup := func(cmd *cobra.Command) (*pipeline, error) {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return nil, err
		}
		f, _ := out.(*os.File)
		return &pipeline{
			cfg:    cfg,
			log:    logger.New(errOut, cfg.LogLevel),
			out:    out,
			errOut: errOut,
			color:  cfg.UseColor(f),
		}, nil
	}

	root := &cobra.Command{
		Use:           "cparser [file]",
		Short:         "Check and run a program written in the small C-like language",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd)
			if err != nil {
				return err
			}
			return p.run(sourcePath(args))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or toml)")
	config.BindFlags(root.PersistentFlags())

	check := &cobra.Command{
		Use:   "check [file]",
		Short: "Report syntax errors and diagnostics without running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd)
			if err != nil {
				return err
			}
			program := p.load(sourcePath(args))
			if program == nil {
				return errDiagnostics
			}
			diags := p.check(program)
			if err := p.report(diags, p.cfg.DiagnosticFormat); err != nil {
				return err
			}
			if len(diags) > 0 {
				return errDiagnostics
			}
			return nil
		},
	}
	check.Flags().String(config.KeyFormat, config.FormatText, "diagnostics format: text, json or yaml")

	tree := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd)
			if err != nil {
				return err
			}
			program := p.load(sourcePath(args))
			if program == nil {
				return nil
			}
			fmt.Fprint(out, printer.Render(program))
			return nil
		},
	}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session, bindings persist between entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := setup(cmd)
			if err != nil {
				return err
			}
			return repl.Start(cmd.InOrStdin(), out, repl.Options{
				Interpreter: p.interpreterOptions(),
				Gate:        p.cfg.GateOnDiagnostics,
				Color:       p.color,
			})
		},
	}

	root.AddCommand(check, tree, replCmd)
	return root
}

func Execute() {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			color := (&config.Config{Color: config.ColorAuto}).UseColor(os.Stderr)
			fmt.Fprintln(os.Stderr, internals.Paint(err.Error(), internals.ColorRed, color))
		}
		os.Exit(1)
	}
}
