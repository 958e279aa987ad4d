package baseserver

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Oudwins/devtaskflow/internals/assert"
	"github.com/Oudwins/devtaskflow/internals/conf"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// InitLogger installs a tint handler writing to stdout and <data_dir>/log.txt
// as the default slog logger.
func InitLogger(config *conf.Config, stdout *os.File) (*slog.Logger, *os.File) {
	logPath := filepath.Join(config.Server.DataDir, "log.txt")
	err := os.MkdirAll(filepath.Dir(logPath), 0o755)
	assert.AssertNil(err, "[BASESERVER] Failed to initialize log directory")
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	assert.AssertNil(err, "[BASESERVER] Failed to open log file")

	logger := NewLogger(io.MultiWriter(stdout, logFile), !isatty.IsTerminal(stdout.Fd()))
	slog.SetDefault(logger)
	return logger, logFile
}

func NewLogger(w io.Writer, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:     slog.LevelDebug,
		AddSource: true,
		NoColor:   noColor,
	}))
}
