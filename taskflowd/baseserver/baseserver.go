package baseserver

import (
	"io"
	"log/slog"
	"os"

	"github.com/Oudwins/devtaskflow/internals/conf"
	"github.com/Oudwins/devtaskflow/internals/env"
)

// BaseServer bundles the process-wide configuration every server component
// reads from.
type BaseServer struct {
	Config  *conf.Config
	Env     *env.EnvStruct
	Logger  *slog.Logger
	logFile io.Closer
}

func New() *BaseServer {
	env := env.Get()
	config := conf.GetConfig()
	logger, logFile := InitLogger(config, os.Stdout)

	return &BaseServer{
		Config:  config,
		Env:     env,
		Logger:  logger,
		logFile: logFile,
	}
}

// NewWith builds a bundle from explicit parts without touching the global
// logger or the file system.
func NewWith(config *conf.Config, env *env.EnvStruct, logger *slog.Logger) *BaseServer {
	return &BaseServer{Config: config, Env: env, Logger: logger}
}

func (b *BaseServer) Close() error {
	if b.logFile == nil {
		return nil
	}
	return b.logFile.Close()
}
