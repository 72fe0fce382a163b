package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"cinebox/config"
)

// Setup points the standard logger at stdout and, when a log file is
// configured, a size-rotated copy of the same stream. The returned closer
// releases the file and is safe to call when no file was opened.
func Setup(cfg config.LogSettings) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}
	if dir := filepath.Dir(cfg.File); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[logging] could not create log dir %s: %v", dir, err)
			log.SetOutput(os.Stdout)
			return nopCloser{}
		}
	}

	rotator := NewRotator(cfg)
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.Printf("[logging] writing to %s (max %dMB, %d backups)", cfg.File, rotator.MaxSize, rotator.MaxBackups)
	return rotator
}

// NewRotator builds the rotating file writer for cfg.
func NewRotator(cfg config.LogSettings) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
