package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"
)

type levelValue slog.Level

func newLevelValue(val slog.Level, p *slog.Level) *levelValue {
	*p = val
	return (*levelValue)(p)
}

func (l *levelValue) String() string {
	return slog.Level(*l).String()
}

func (l *levelValue) Set(s string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown log level; supported levels are debug, info, warn, error")
	}
	*l = levelValue(level)
	return nil
}

func (l *levelValue) Type() string {
	return "Log-Level"
}

// LevelVar defines a slog.Level flag with specified name, default value, and usage string.
func LevelVar(fs *pflag.FlagSet, p *slog.Level, name string, value slog.Level, usage string) {
	fs.Var(newLevelValue(value, p), name, usage)
}
