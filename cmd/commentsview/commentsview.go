package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rtemka/agg/commentsview/pkg/api"
	"github.com/rtemka/agg/commentsview/pkg/client"
	"github.com/rtemka/agg/commentsview/pkg/server"
	"github.com/rtemka/agg/commentsview/pkg/submitter"
	"github.com/rtemka/agg/commentsview/pkg/view"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// переменная окружения.
const (
	portEnv       = "VIEW_PORT"
	apiURLEnv     = "COMMENTS_API_URL"
	apiTimeoutEnv = "COMMENTS_API_TIMEOUT"
	renderWaitEnv = "VIEW_RENDER_WAIT"
)

const usage = "usage: %s [serve | list | create <name>]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load() // загружаем переменные окружения

	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}

	zl := server.Logger(os.Stderr, zapcore.DebugLevel)
	defer func() {
		_ = zl.Sync()
	}()

	c, err := newClient(zl)
	if err != nil {
		return err
	}

	switch cmd {
	case "serve":
		return serve(context.Background(), c, zl)
	case "list":
		return list(c, zl, os.Stdout)
	case "create":
		if len(args) < 2 {
			return fmt.Errorf(usage, os.Args[0])
		}
		return create(c, zl, args[1], os.Stdout)
	default:
		return fmt.Errorf(usage, os.Args[0])
	}
}

// newClient создаёт клиента удалённого API по
// необязательным переменным окружения.
func newClient(logger *zap.Logger) (*client.Client, error) {
	var opts []client.Option
	if s, ok := os.LookupEnv(apiTimeoutEnv); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("environment variable %q: %w", apiTimeoutEnv, err)
		}
		opts = append(opts, client.WithTimeout(d))
	}
	return client.New(os.Getenv(apiURLEnv), logger, opts...)
}

// serve запускает веб-сервер представлений
// и работает до сигнала прерывания или отмены ctx.
func serve(ctx context.Context, c *client.Client, logger *zap.Logger) error {
	em, err := server.Envs(portEnv)
	if err != nil {
		return err
	}

	wait := api.DefaultRenderWait
	if s, ok := os.LookupEnv(renderWaitEnv); ok {
		if wait, err = time.ParseDuration(s); err != nil {
			return fmt.Errorf("environment variable %q: %w", renderWaitEnv, err)
		}
	}

	a := api.New(c, logger)
	a.RenderWait = wait

	server.Serve(ctx, logger, server.New(em[portEnv], a))

	return nil
}

// list загружает комментарии один раз и печатает их.
func list(c *client.Client, logger *zap.Logger, w io.Writer) error {
	v := view.NewListView(c, logger)
	defer v.Unmount()

	<-v.Mount(context.Background())
	return view.WriteText(w, v.State())
}

// create отправляет новый комментарий с указанным именем.
// При ошибке пользователь видит только запись в логе.
func create(c *client.Client, logger *zap.Logger, name string, w io.Writer) error {
	s := submitter.New(c, submitter.NotifyFunc(func(msg string) {
		fmt.Fprintln(w, msg)
	}), logger)
	s.SetValue(name)
	_ = s.Submit(context.Background())
	return nil
}
