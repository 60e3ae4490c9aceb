package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rtemka/agg/commentsview/pkg/mockapi"
	"github.com/rtemka/agg/commentsview/pkg/server"
	"go.uber.org/zap/zapcore"
)

// имя переменной окружения
const (
	portEnv = "PLACEHOLDER_PORT"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// переменные можно найти не только в файле
	_ = godotenv.Load()

	zl := server.Logger(os.Stdout, zapcore.InfoLevel)
	defer func() {
		_ = zl.Sync()
	}()

	em, err := server.Envs(portEnv)
	if err != nil {
		return err
	}

	server.Serve(context.Background(), zl, server.New(em[portEnv], mockapi.New(nil, zl)))

	return nil
}
