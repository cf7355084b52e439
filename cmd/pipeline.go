package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"cparser/ast"
	"cparser/config"
	"cparser/internals"
	"cparser/interpreter"
	"cparser/lexer"
	"cparser/parser"
	"cparser/semantics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// pipeline wires the phases together: read, parse, check, run.
type pipeline struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
	color  bool
}

func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot open %s", path)
	}
	return string(content), nil
}

// load returns nil when the file can't be read or doesn't parse, the reason is already printed
func (p *pipeline) load(path string) *ast.Program {
	content, err := readSource(path)
	if err != nil {
		fmt.Fprintln(p.errOut, internals.Paint(err.Error(), internals.ColorRed, p.color))
		return nil
	}

	start := time.Now()
	ps := parser.NewParser(lexer.NewLexer(path, content), path)
	program := ps.Parse()
	p.log.Debug("parse finished", zap.String("file", path), zap.Duration("took", time.Since(start)))

	syntax := internals.NewErrorCollector()
	syntax.AddAll(ps.Errors)
	if err := syntax.ErrorOrNil(); err != nil {
		for _, err := range syntax.Errors {
			fmt.Fprintln(p.errOut, internals.Paint(err.Error(), internals.ColorRed, p.color))
		}
		p.log.Debug("syntax errors, stopping", zap.Int("count", syntax.Len()), zap.Error(err))
		return nil
	}
	return program
}

func (p *pipeline) check(program *ast.Program) []*semantics.Diagnostic {
	start := time.Now()
	tc := semantics.NewTypeChecker(internals.NewErrorCollector(), p.log)
	tc.Check(program)
	diags := tc.Diagnostics()
	p.log.Debug("check finished", zap.Duration("took", time.Since(start)))
	if len(diags) > 0 {
		p.log.Warn("checker reported diagnostics", zap.Int("count", len(diags)))
	}
	return diags
}

func (p *pipeline) report(diags []*semantics.Diagnostic, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(diags)
	case config.FormatYAML:
		enc := yaml.NewEncoder(p.out)
		defer enc.Close()
		return enc.Encode(diags)
	default:
		for _, d := range diags {
			fmt.Fprintln(p.out, internals.Paint(d.Error(), internals.ColorYellow, p.color))
		}
		return nil
	}
}

func (p *pipeline) interpreterOptions() interpreter.Options {
	return interpreter.Options{
		Out:            p.out,
		Logger:         p.log,
		RecursionLimit: p.cfg.RecursionLimit,
		StrictReads:    p.cfg.UndeclaredRead == config.ReadError,
	}
}

// run is the default command: diagnostics are printed, then the program runs
// unless gating is on and something was found.
func (p *pipeline) run(path string) error {
	program := p.load(path)
	if program == nil {
		return nil
	}

	diags := p.check(program)
	if err := p.report(diags, config.FormatText); err != nil {
		return err
	}
	if p.cfg.GateOnDiagnostics && len(diags) > 0 {
		p.log.Info("execution skipped", zap.Int("diagnostics", len(diags)))
		return nil
	}

	start := time.Now()
	_, err := interpreter.NewInterpreter(nil, p.interpreterOptions()).Run(program)
	p.log.Debug("run finished", zap.Duration("took", time.Since(start)))
	return err
}
