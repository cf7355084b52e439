package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cparser/ast"
	"cparser/internals"
	"cparser/interpreter"
	"cparser/lexer"
	"cparser/object"
	"cparser/parser"
	"cparser/semantics"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

const (
	PROMPT      = `>>> `
	CONTINUE    = `... `
	QUIT        = `:quit`
	ENV         = `:env`
	historyFile = ".cparser_history"
)

type Options struct {
	Interpreter interpreter.Options
	// Gate skips running an entry the checker found problems in
	Gate  bool
	Color bool
}

// Session keeps the checker scope and the global bindings alive between entries.
type Session struct {
	checker *semantics.TypeChecker
	interp  *interpreter.Interpreter
	out     io.Writer
	seen    int
	opts    Options
}

func NewSession(out io.Writer, opts Options) *Session {
	opts.Interpreter.Out = out
	return &Session{
		checker: semantics.NewTypeChecker(internals.NewErrorCollector(), opts.Interpreter.Logger),
		interp:  interpreter.NewInterpreter(nil, opts.Interpreter),
		out:     out,
		opts:    opts,
	}
}

// Eval handles one complete entry. Errors of any phase are printed, never returned.
func (s *Session) Eval(src string) {
	ps := parser.NewParser(lexer.NewLexer("", src), "")
	program := ps.Parse()
	if len(ps.Errors) != 0 {
		for _, err := range ps.Errors {
			s.print(err.Error(), internals.ColorRed)
		}
		return
	}

	s.checker.Check(program)
	diags := s.checker.Diagnostics()
	fresh := diags[s.seen:]
	s.seen = len(diags)
	for _, d := range fresh {
		s.print(d.Error(), internals.ColorYellow)
	}
	if s.opts.Gate && len(fresh) > 0 {
		return
	}

	val, err := s.interp.Run(program)
	if err != nil {
		s.print(err.Error(), internals.ColorRed)
		return
	}
	if val == nil || val == object.NONE || endsWithPrint(program) {
		return
	}
	fmt.Fprintln(s.out, val.Inspect())
}

// Env prints the global bindings, sorted by name.
func (s *Session) Env() {
	globals := s.interp.Globals()
	names := globals.Names()
	sort.Strings(names)
	for _, name := range names {
		val, _ := globals.Resolve(name)
		fmt.Fprintf(s.out, "%s = %s\n", name, val.Inspect())
	}
}

func (s *Session) print(msg, color string) {
	fmt.Fprintln(s.out, internals.Paint(msg, color, s.opts.Color))
}

// the print already showed the value
func endsWithPrint(program *ast.Program) bool {
	if len(program.Instructions) == 0 {
		return false
	}
	_, ok := program.Instructions[len(program.Instructions)-1].(*ast.PrintInstruction)
	return ok
}

// Start reads entries until eof or :quit. A terminal gets line editing and history,
// anything else is read line by line.
func Start(in io.Reader, out io.Writer, opts Options) error {
	session := NewSession(out, opts)
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return startLiner(session)
	}
	return startScanner(in, out, session)
}

func startScanner(in io.Reader, out io.Writer, session *Session) error {
	scanner := bufio.NewScanner(in)
	var entry strings.Builder
	for {
		if entry.Len() == 0 {
			io.WriteString(out, PROMPT)
		} else {
			io.WriteString(out, CONTINUE)
		}
		if !scanner.Scan() {
			io.WriteString(out, "\n")
			if entry.Len() > 0 {
				session.Eval(entry.String())
			}
			return scanner.Err()
		}
		line := scanner.Text()
		if entry.Len() == 0 {
			switch strings.TrimSpace(line) {
			case QUIT:
				return nil
			case ENV:
				session.Env()
				continue
			}
		}
		entry.WriteString(line)
		entry.WriteString("\n")
		if !internals.Balanced(entry.String()) {
			continue
		}
		session.Eval(entry.String())
		entry.Reset()
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

func startLiner(session *Session) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	path := historyPath()
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(path); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	var entry strings.Builder
	for {
		prompt := PROMPT
		if entry.Len() > 0 {
			prompt = CONTINUE
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			entry.Reset()
			continue
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if entry.Len() == 0 {
			switch strings.TrimSpace(input) {
			case QUIT:
				return nil
			case ENV:
				session.Env()
				continue
			}
		}
		entry.WriteString(input)
		entry.WriteString("\n")
		if !internals.Balanced(entry.String()) {
			continue
		}
		src := entry.String()
		entry.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(strings.TrimSpace(src))
		session.Eval(src)
	}
}
