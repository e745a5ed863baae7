package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Rotation параметры ротации файла логов
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Option опция конструктора логгера
type Option func(*Logger)

// WithRotation задает параметры ротации файла
func WithRotation(r Rotation) Option {
	return func(l *Logger) {
		l.rotation = r
	}
}

// WithOutput заменяет stdout на произвольный writer (используется в тестах)
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.stdout = w
	}
}

// Logger простой логгер с уровнями и printf-форматированием
// Пишет в stdout и, если указан файл, в файл с ротацией (lumberjack)
type Logger struct {
	mu       sync.Mutex
	level    Level
	out      *log.Logger
	stdout   io.Writer
	file     *lumberjack.Logger
	rotation Rotation
}

// New создает логгер
// filePath может быть пустым - тогда логи пишутся только в stdout
func New(filePath string, level string, opts ...Option) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		level:  lvl,
		stdout: os.Stdout,
		rotation: Rotation{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
	for _, opt := range opts {
		opt(l)
	}

	writers := []io.Writer{l.stdout}
	if filePath != "" {
		l.file = &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    l.rotation.MaxSizeMB,
			MaxBackups: l.rotation.MaxBackups,
			MaxAge:     l.rotation.MaxAgeDays,
			Compress:   l.rotation.Compress,
		}
		writers = append(writers, l.file)
	}

	l.out = log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmicroseconds)
	return l, nil
}

// ParseLevel парсит уровень логирования из строки
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logger: unknown level %q", level)
	}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.mu.Lock()
	l.out.Printf("[FATAL] "+format, v...)
	l.mu.Unlock()
	_ = l.Close()
	os.Exit(1)
}

// Close закрывает файл логов (если он был открыт)
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("["+levelNames[level]+"] "+format, v...)
}
