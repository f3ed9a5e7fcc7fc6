package log

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/poolescrow/poold/config"
)

const stdoutPath = "stdout"

// node holds the process-wide logger, a nop logger until InitLog
var node atomic.Value

type holder struct{ log.Logger }

func init() {
	SetLogger(log.NewNopLogger())
}

// NewLogger builds a tendermint logger in cfg.LogFormat writing to
// cfg.LogPath, filtered by the per-module levels of cfg.LogLevel
func NewLogger(cfg *config.Config) (log.Logger, error) {
	out, err := output(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	var base log.Logger
	switch cfg.LogFormat {
	case config.LogFormatJSON:
		base = log.NewTMJSONLogger(log.NewSyncWriter(out))
	case config.LogFormatPlain:
		base = log.NewTMLogger(log.NewSyncWriter(out))
	default:
		return nil, errors.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	filtered, err := flags.ParseLogLevel(cfg.LogLevel, base, config.DefaultLogLevel())
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	return filtered, nil
}

func output(path string) (io.Writer, error) {
	if path == "" || path == stdoutPath {
		return os.Stdout, nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}

	return file, nil
}

// InitLog replaces the process logger with one built from cfg
func InitLog(cfg *config.Config) error {
	l, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	SetLogger(l)
	return nil
}

func SetLogger(l log.Logger) {
	node.Store(holder{l})
}

func Logger() log.Logger {
	return node.Load().(holder).Logger
}

func Info(msg string, keyvals ...interface{}) {
	Logger().Info(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Logger().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger().Debug(msg, keyvals...)
}

func With(keyvals ...interface{}) log.Logger {
	return Logger().With(keyvals...)
}
