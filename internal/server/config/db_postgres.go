package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/gabrieldeam/sysane/migrations"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenDB открывает подключение к PostgreSQL (драйвер pgx), настраивает пул
// и проверяет доступность базы (Ping).
//
// Вызывающий владеет *sql.DB и обязан закрыть его.
func OpenDB(ctx context.Context, cfg DBConfig, log *zap.SugaredLogger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Errorf("error to connect db: %v", err)
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		log.Errorf("error check db connection: %v", err)
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

// Migrate применяет встроенные миграции (каталог migrations/postgres).
//
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func Migrate(db *sql.DB, cfg MigrationsConfig, log *zap.SugaredLogger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Errorf("error creating migration driver: %v", err)
		return fmt.Errorf("migration driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, migrations.Dir)
	if err != nil {
		log.Errorf("error reading embedded migrations: %v", err)
		return fmt.Errorf("migration source: %w", err)
	}

	// создаём миграции с выбранным драйвером
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		log.Errorf("error creating migrations: %v", err)
		return fmt.Errorf("migrations: %w", err)
	}
	if cfg.LockTimeout > 0 {
		m.LockTimeout = cfg.LockTimeout
	}

	// запускаем применение миграций
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Errorf("error applying migrations: %v", err)
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("migrations applied successfully")
	return nil
}
