package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/homecase-login/internal/infra/config"
	"github.com/mkrupp/homecase-login/internal/infra/logging"
	"github.com/mkrupp/homecase-login/internal/infra/transport/http"
	"github.com/mkrupp/homecase-login/internal/repo/user"
	"github.com/mkrupp/homecase-login/internal/svc/loginsvc"
)

const (
	appName = "homecase"
	svcName = "loginsvc"
)

type Config struct {
	config.EnvConfig

	Log  logging.LoggerConfig            `envPrefix:"LOG_"`
	Auth loginsvc.AuthConfig             `envPrefix:"AUTH_"`
	HTTP loginsvc.HTTPTransportConfig    `envPrefix:"HTTP_"`
	User user.SQLiteUserRepositoryConfig `envPrefix:"USER_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotenv(".env"); err != nil {
		panic(err)
	}

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		log := logging.GetLogger("cmd.loginsvc")

		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	loginSvc, err := loginsvc.NewLoginService(
		user.SQLiteUserRepositoryFactory(cfg.User),
		cfg.Auth,
	)
	if err != nil {
		return fmt.Errorf("new login service: %w", err)
	}
	defer loginSvc.Close()

	httpTransport := loginsvc.NewServiceHTTPTransport(loginSvc, cfg.HTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
