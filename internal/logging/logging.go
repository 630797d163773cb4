package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saltyorg/schoolbook/internal/config"
)

const (
	DefaultLogFileName = "schoolbook.log"
	timeFormat         = "2006-01-02 15:04:05"
)

// Apply sets the global log level and output writers (console + rotating file).
// The file writer is skipped when cfg.File is empty.
func Apply(cfg config.LoggingConfig) {
	applyLevel(cfg.Level)
	log.Logger = zerolog.New(writer(os.Stdout, cfg)).With().Timestamp().Logger()
}

func applyLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// writer builds the console writer, fanned out to a rotating file when configured.
func writer(console io.Writer, cfg config.LoggingConfig) io.Writer {
	consoleOutput := zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}
	if cfg.File == "" {
		return consoleOutput
	}

	if err := ensureLogDir(cfg.File); err != nil {
		log.Error().Err(err).Str("path", cfg.File).Msg("Failed to prepare log directory; logging to console only")
		return consoleOutput
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	return zerolog.MultiLevelWriter(consoleOutput, fileConsole)
}

// ResolveFile returns the log file to write: the configured file, or one
// beside the database when BesideDatabase is set, or "" for console only.
func ResolveFile(cfg config.Config) string {
	if cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	if cfg.Logging.BesideDatabase {
		return FilePathForDB(cfg.Database.Path)
	}
	return ""
}

// FilePathForDB returns a log file path that lives alongside the database file.
func FilePathForDB(dbPath string) string {
	if dbPath == "" {
		return DefaultLogFileName
	}
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return filepath.Join(filepath.Dir(dbPath), DefaultLogFileName)
	}
	return filepath.Join(filepath.Dir(absDBPath), DefaultLogFileName)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
