package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

type levelValue zapcore.Level

func newLevelValue(val zapcore.Level, p *zapcore.Level) *levelValue {
	*p = val
	return (*levelValue)(p)
}

func (l *levelValue) String() string {
	return zapcore.Level(*l).String()
}
func (l *levelValue) Set(s string) error {
	var level zapcore.Level
	if err := level.Set(s); err != nil {
		return fmt.Errorf("unknown log level; supported levels are debug, info, warn, error")
	}
	*l = levelValue(level)
	return nil
}

func (l *levelValue) Type() string {
	return "Log-Level"
}

// LevelVar defines a zapcore.Level flag with specified name, default value, and usage string.
func LevelVar(fs *pflag.FlagSet, p *zapcore.Level, name string, value zapcore.Level, usage string) {
	fs.Var(newLevelValue(value, p), name, usage)
}

// BindFlags registers every configurable flag on fs.
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	var level zapcore.Level
	LevelVar(fs, &level, KeyLogLevel, def.LogLevel, "log level: debug, info, warn, error")
	fs.Bool(flagName(KeyGate), def.GateOnDiagnostics, "skip execution when the checker reports diagnostics")
	fs.Int(KeyRecursionLimit, def.RecursionLimit, "maximum call depth before a RecursionLimit error")
	fs.String(KeyUndeclaredRead, def.UndeclaredRead, "reading an undeclared name at runtime: novalue or error")
	fs.String(KeyColor, def.Color, "colored diagnostics: auto, always or never")
}
