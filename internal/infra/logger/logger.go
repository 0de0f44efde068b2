package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Config drives how the zap logger is built.
type Config struct {
	Development bool
	Level       string
	Encoding    string
}

var (
	mu     sync.Mutex
	global *zap.Logger
)

// MustInit builds the process logger and stores it globally, panicking when
// the config is unusable.
func MustInit(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		_ = global.Sync()
	}
	global = l
	return l
}

// Sync flushes buffered entries on the global logger. Sync errors on a
// terminal stdout are not real failures and are swallowed.
func Sync() error {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		return nil
	}

	if err := l.Sync(); err != nil {
		if errors.Is(err, syscall.ENOTTY) || errors.Is(err, os.ErrInvalid) {
			return nil
		}
		return err
	}
	return nil
}

// New returns a zap.Logger configured according to cfg. Development gets a
// colorized console encoder; production gets JSON.
func New(cfg Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	zapCfg.EncoderConfig = encoderConfig(zapCfg.Encoding)

	if cfg.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func encoderConfig(encoding string) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	if encoding == "console" {
		cfg.ConsoleSeparator = " | "
		cfg.EncodeLevel = consoleLevelEncoder
		cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		}
		return cfg
	}

	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

var stdoutIsTerminal = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}()

const colorReset = "\x1b[0m"

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  "\x1b[36m",
	zapcore.InfoLevel:   "\x1b[32m",
	zapcore.WarnLevel:   "\x1b[33m",
	zapcore.ErrorLevel:  "\x1b[31m",
	zapcore.DPanicLevel: "\x1b[35m",
	zapcore.PanicLevel:  "\x1b[35m",
	zapcore.FatalLevel:  "\x1b[31m",
}

func consoleLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	label := fmt.Sprintf("%-5s", strings.ToUpper(level.String()))
	if color, ok := levelColors[level]; ok && stdoutIsTerminal {
		enc.AppendString(color + label + colorReset)
		return
	}
	enc.AppendString(label)
}
