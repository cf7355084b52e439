package config

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	ReadNoValue = "novalue"
	ReadError   = "error"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// keys shared by the config file and the flags
const (
	KeyLogLevel       = "log-level"
	KeyGate           = "gate-on-diagnostics"
	KeyRecursionLimit = "recursion-limit"
	KeyUndeclaredRead = "undeclared-read"
	KeyFormat         = "format"
	KeyColor          = "color"
)

// flagNames maps a key to its flag when the two differ
var flagNames = map[string]string{
	KeyGate: "gate",
}

func flagName(key string) string {
	if name, ok := flagNames[key]; ok {
		return name
	}
	return key
}

type Config struct {
	LogLevel          zapcore.Level
	GateOnDiagnostics bool
	RecursionLimit    int
	UndeclaredRead    string
	DiagnosticFormat  string
	Color             string
}

func Default() *Config {
	return &Config{
		LogLevel:          zapcore.WarnLevel,
		GateOnDiagnostics: false,
		RecursionLimit:    1000,
		UndeclaredRead:    ReadNoValue,
		DiagnosticFormat:  FormatText,
		Color:             ColorAuto,
	}
}

// Load layers defaults, then the optional file (yaml or toml by extension), then
// any flag of fs that was set explicitly. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault(KeyLogLevel, def.LogLevel.String())
	v.SetDefault(KeyGate, def.GateOnDiagnostics)
	v.SetDefault(KeyRecursionLimit, def.RecursionLimit)
	v.SetDefault(KeyUndeclaredRead, def.UndeclaredRead)
	v.SetDefault(KeyFormat, def.DiagnosticFormat)
	v.SetDefault(KeyColor, def.Color)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	if fs != nil {
		for _, key := range []string{KeyLogLevel, KeyGate, KeyRecursionLimit, KeyUndeclaredRead, KeyFormat, KeyColor} {
			flag := fs.Lookup(flagName(key))
			// only explicit flags win over the file
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "binding flag %s", key)
			}
		}
	}

	cfg := &Config{
		GateOnDiagnostics: v.GetBool(KeyGate),
		RecursionLimit:    v.GetInt(KeyRecursionLimit),
		UndeclaredRead:    v.GetString(KeyUndeclaredRead),
		DiagnosticFormat:  v.GetString(KeyFormat),
		Color:             v.GetString(KeyColor),
	}
	if err := cfg.LogLevel.Set(v.GetString(KeyLogLevel)); err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RecursionLimit <= 0 {
		return fmt.Errorf("recursion-limit must be positive, got %d", c.RecursionLimit)
	}
	switch c.UndeclaredRead {
	case ReadNoValue, ReadError:
	default:
		return fmt.Errorf("undeclared-read must be %s or %s, got %q", ReadNoValue, ReadError, c.UndeclaredRead)
	}
	switch c.DiagnosticFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("format must be text, json or yaml, got %q", c.DiagnosticFormat)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

// UseColor decides whether output to f gets ANSI colors.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if f == nil {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}
