package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

var Verbose bool

// New returns a text logger writing into the out. Debug records are enabled by Verbose.
// Source file paths are trimmed to be relative to the module root.
func New(out io.Writer) *slog.Logger {
	_, path, _, _ := runtime.Caller(0)
	prefix := strings.TrimSuffix(path, "/internal/logging/logging.go")

	level := &slog.LevelVar{}
	if Verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{
		AddSource: Verbose,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.SourceKey:
				src, ok := attr.Value.Any().(*slog.Source)
				if !ok {
					return attr
				}

				src.File = strings.TrimPrefix(src.File, prefix+"/")
				src.File = strings.TrimPrefix(src.File, filepath.Dir(prefix)+"/")
				return slog.Attr{Key: "src", Value: attr.Value}
			case slog.MessageKey:
				if attr.Value.String() == "" {
					return slog.Attr{}
				}
			}

			return attr
		},
	}

	return slog.New(slog.NewTextHandler(out, opts))
}

// Init installs the logger writing into out as the default one.
func Init(out io.Writer) {
	slog.SetDefault(New(out))
}
