// пакет server содержит общий для команд запуск
// http-серверов и настройку журнала
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var encoderCfg = zapcore.EncoderConfig{
	MessageKey: "msg",
	NameKey:    "name",

	LevelKey:    "level",
	EncodeLevel: zapcore.CapitalLevelEncoder,

	CallerKey:    "caller",
	EncodeCaller: zapcore.ShortCallerEncoder,

	TimeKey:    "time",
	EncodeTime: zapcore.RFC3339TimeEncoder,
}

// Logger возвращает JSON-журнал, пишущий в w.
func Logger(w io.Writer, level zapcore.Level) *zap.Logger {
	return zap.New(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(zapcore.AddSync(w)),
			level,
		),
		zap.AddCaller(),
	)
}

// New конфигурирует сервер.
func New(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		IdleTimeout:       3 * time.Minute,
		ReadHeaderTimeout: time.Minute,
	}
}

// Envs собирает ожидаемые переменные окружения,
// возвращает ошибку, если какая-либо из переменных env не задана.
func Envs(envs ...string) (map[string]string, error) {
	em := make(map[string]string, len(envs))
	var ok bool
	for _, env := range envs {
		if em[env], ok = os.LookupEnv(env); !ok {
			return nil, fmt.Errorf("environment variable %q must be set", env)
		}
	}
	return em, nil
}

// Serve запускает серверы и ждёт сигнала прерывания
// (CTRL-C и т.п.) либо отмены ctx, после чего "мягко"
// гасит серверы и дожидается их остановки.
func Serve(ctx context.Context, logger *zap.Logger, servers ...*http.Server) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(len(servers))

	for _, srv := range servers {
		go func(srv *http.Server) {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error(err.Error())
			}
			logger.Warn("server is shut down", zap.String("address", srv.Addr))
		}(srv)
		logger.Info("server started", zap.String("address", srv.Addr))
	}

	<-ctx.Done()
	logger.Sugar().Warnf("shutting down: %v", ctx.Err())

	for _, srv := range servers {
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Sugar().Info(err)
		}
	}

	wg.Wait()
}
