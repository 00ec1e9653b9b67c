// @title           Sysane Auth API
// @version         1.0
// @description     User registration, email verification, login and password reset.

// @contact.name   Sysane
// @contact.url    https://github.com/gabrieldeam/sysane

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения Sysane.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (по умолчанию ./configs/server.yaml);
//   - подключение к базе данных и применение миграций;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT)
//     и корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gabrieldeam/sysane/internal/server/api"
	"github.com/gabrieldeam/sysane/internal/server/config"
	"github.com/gabrieldeam/sysane/internal/server/crypto"
	"github.com/gabrieldeam/sysane/internal/server/mailer"
	"github.com/gabrieldeam/sysane/internal/server/middleware"
	h "github.com/gabrieldeam/sysane/internal/server/net/http"
	"github.com/gabrieldeam/sysane/internal/server/repository"
	"github.com/gabrieldeam/sysane/internal/server/service"
	"github.com/gabrieldeam/sysane/internal/shared/logger"

	_ "github.com/gabrieldeam/sysane/swagger/docs"
)

var (
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Sysane auth server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var configPath string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	serve.Flags().StringVar(&configPath, "config", "./configs/server.yaml", "путь к server.yaml")

	version := &cobra.Command{
		Use:   "version",
		Short: "Показать версию сервера",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Build version: %s\nBuild date: %s\n", buildVersion, buildDate)
		},
	}

	root.AddCommand(serve, version)
	return root
}

func run(configPath string) error {
	// .env грузим до конфига, он читает окружение
	envErr := godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	httpLogger := logger.NewHTTPLogger(logger.Options{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Console:    cfg.Log.Console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = httpLogger.Sync() }()
	sugar := httpLogger.Sugar()

	if envErr != nil {
		sugar.Warnf("no .env file loaded, error: %v", envErr)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных
	db, err := config.OpenDB(ctx, cfg.DB, sugar)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrationsEnabled() {
		if err := config.Migrate(db, cfg.Migrations, sugar); err != nil {
			return err
		}
	}

	tokens, err := crypto.NewTokenService(crypto.JWTConfig{
		Algorithm:  cfg.Auth.JWT.Algorithm,
		SigningKey: cfg.Auth.JWT.SigningKey,
	})
	if err != nil {
		return err
	}

	a := cfg.Password.Argon2
	hasher, err := crypto.NewPasswordHasher(cfg.Password.Hasher, crypto.Argon2Params{
		Time:      a.Time,
		MemoryKiB: a.MemoryKiB,
		Threads:   a.Threads,
		KeyLen:    a.KeyLen,
		SaltLen:   a.SaltLen,
	}, cfg.Password.Bcrypt.Cost)
	if err != nil {
		return err
	}

	notifier, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		UseTLS:   cfg.MailUseTLS(),
	}, sugar)
	if err != nil {
		return err
	}

	// создаём репы
	usersRepo := repository.NewUsersRepository(db)
	repos := service.Repositories{Users: usersRepo}
	infra := service.Infra{Notifier: notifier, Tokens: tokens, Hasher: hasher}
	// создаём сервис
	svc := service.NewServices(repos, infra, cfg)

	verifier := middleware.NewSessionVerifier(tokens)
	handler := api.NewHandler(svc, httpLogger, verifier, api.Options{
		SecureCookie: cfg.SecureCookie(),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Health:       usersRepo,
	})

	routerOpts := h.Options{
		Production:     cfg.IsProduction(),
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	if cfg.RateLimitEnabled() {
		routerOpts.RateLimitPerMinute = cfg.Security.RateLimit.RequestsPerMinute
	}
	router := h.NewRouter(handler, routerOpts)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, gctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infow("server started", "addr", addr, "tls", cfg.TLS.Enabled, "env", cfg.Env)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-gctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	sugar.Info("server gracefully stopped")
	return nil
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
