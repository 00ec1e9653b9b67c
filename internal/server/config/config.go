// Package config отвечает за:
// - чтение server.yaml (необязательного)
// - подстановку переменных окружения вида ${SECRET_KEY}
// - наложение переменных окружения (DATABASE_URL, SECRET_KEY, MAIL_* ...) через envconfig
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config — корневая структура всего конфига сервера.
//
// Вложенные поля с тегом envconfig читаются из переменной окружения с
// именем из тега (например DATABASE_URL), имена совпадают с .env продукта.
type Config struct {
	Env        string           `yaml:"env" envconfig:"APP_ENV"` // dev|stage|prod
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	TLS        TLSConfig        `yaml:"tls"`
	DB         DBConfig         `yaml:"db"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Auth       AuthConfig       `yaml:"auth"`
	Cookie     CookieConfig     `yaml:"cookie"`
	Password   PasswordConfig   `yaml:"password"`
	Mail       MailConfig       `yaml:"mail"`
	Security   SecurityConfig   `yaml:"security"`
	Log        LogConfig        `yaml:"log"`
}

// AppConfig — настройки, которые нужны бизнес-логике.
type AppConfig struct {
	// FrontendURL — базовый адрес фронтенда, из него строятся ссылки в письмах.
	FrontendURL string `yaml:"frontend_url" envconfig:"FRONTEND_URL"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port              int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	RequestTimeout    time.Duration `yaml:"request_timeout"`  // таймаут обработки одного запроса
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled" envconfig:"TLS_ENABLED"`
	CertFile   string `yaml:"cert_file" envconfig:"TLS_CERT_FILE"`
	KeyFile    string `yaml:"key_file" envconfig:"TLS_KEY_FILE"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DSN             string        `yaml:"dsn" envconfig:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	QueryTimeout    time.Duration `yaml:"query_timeout"` // таймаут на запросы к БД
}

// MigrationsConfig — применение встроенных миграций при старте.
type MigrationsConfig struct {
	Enabled     *bool         `yaml:"enabled" envconfig:"MIGRATIONS_ENABLED"`
	LockTimeout time.Duration `yaml:"lock_timeout"` // сколько ждать advisory lock на миграции
}

// AuthConfig — настройки токенов.
type AuthConfig struct {
	// TokenTTLMinutes — срок жизни всех токенов (verify/reset/login) в минутах.
	TokenTTLMinutes int       `yaml:"token_ttl_minutes" envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	JWT             JWTConfig `yaml:"jwt"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm" envconfig:"ALGORITHM"`    // HS256|HS384|HS512
	SigningKey string `yaml:"signing_key" envconfig:"SECRET_KEY"` // может содержать ${SECRET_KEY}
}

// CookieConfig — параметры cookie сессии.
type CookieConfig struct {
	Secure *bool `yaml:"secure" envconfig:"SECURE_COOKIE"`
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher" envconfig:"PASSWORD_HASHER"` // argon2id|bcrypt
	Argon2 Argon2Config `yaml:"argon2"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost" envconfig:"BCRYPT_COST"`
}

// MailConfig — SMTP для отправки писем со ссылками.
type MailConfig struct {
	Host     string `yaml:"host" envconfig:"MAIL_HOST"`
	Port     int    `yaml:"port" envconfig:"MAIL_PORT"`
	Username string `yaml:"username" envconfig:"MAIL_USERNAME"`
	Password string `yaml:"password" envconfig:"MAIL_PASSWORD"`
	UseTLS   *bool  `yaml:"use_tls" envconfig:"MAIL_USE_TLS"` // STARTTLS
	From     string `yaml:"from" envconfig:"MAIL_FROM"`
}

// SecurityConfig — ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig — rate limit по IP на /auth.
type RateLimitConfig struct {
	Enabled           *bool `yaml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
	RequestsPerMinute int   `yaml:"requests_per_minute" envconfig:"RATE_LIMIT_RPM"`
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level   string `yaml:"level" envconfig:"LOG_LEVEL"`   // debug|info|warn|error
	Format  string `yaml:"format" envconfig:"LOG_FORMAT"` // json|console
	Dir     string `yaml:"dir" envconfig:"LOG_DIR"`
	Console bool   `yaml:"console" envconfig:"LOG_CONSOLE"`

	MaxSizeMB  int `yaml:"max_size_mb" envconfig:"LOG_MAX_SIZE_MB"`
	MaxBackups int `yaml:"max_backups" envconfig:"LOG_MAX_BACKUPS"`
	MaxAgeDays int `yaml:"max_age_days" envconfig:"LOG_MAX_AGE_DAYS"`
}

// Load читает YAML (если файл есть), подставляет переменные окружения вида ${VAR},
// затем накладывает переменные окружения, проставляет дефолты и валидирует.
//
// Отсутствующий файл не ошибка: сервер можно настроить только через окружение.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			// signing_key: "${SECRET_KEY}" -> signing_key: "реальное_значение"
			expanded := ExpandEnvStrict(string(raw))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана, оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := envPlaceholder.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyEnv накладывает переменные окружения поверх значений из yaml.
// Заданная переменная всегда побеждает, незаданная поле не трогает.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("не удалось прочитать переменные окружения: %w", err)
	}
	return nil
}

// ApplyDefaults — дефолтные значения, если поле не задано ни в yaml, ни в окружении.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	setDuration(&cfg.Server.ReadTimeout, 10*time.Second)
	setDuration(&cfg.Server.ReadHeaderTimeout, 5*time.Second)
	setDuration(&cfg.Server.WriteTimeout, 15*time.Second)
	setDuration(&cfg.Server.IdleTimeout, 60*time.Second)
	setDuration(&cfg.Server.ShutdownTimeout, 10*time.Second)
	setDuration(&cfg.Server.RequestTimeout, 30*time.Second)
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	if cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = "1.2"
	}

	if cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 25
	}
	if cfg.DB.MaxIdleConns == 0 {
		cfg.DB.MaxIdleConns = 5
	}
	setDuration(&cfg.DB.ConnMaxLifetime, 30*time.Minute)
	setDuration(&cfg.DB.ConnMaxIdleTime, 5*time.Minute)
	setDuration(&cfg.DB.QueryTimeout, 5*time.Second)

	setBool(&cfg.Migrations.Enabled, true)
	setDuration(&cfg.Migrations.LockTimeout, 15*time.Second)

	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 120
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	cfg.Auth.JWT.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Auth.JWT.Algorithm))

	setBool(&cfg.Cookie.Secure, true)

	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "argon2id"
	}
	cfg.Password.Hasher = strings.ToLower(cfg.Password.Hasher)
	if cfg.Password.Argon2 == (Argon2Config{}) {
		cfg.Password.Argon2 = Argon2Config{
			Time:      3,
			MemoryKiB: 64 * 1024,
			Threads:   2,
			KeyLen:    32,
			SaltLen:   16,
		}
	}
	if cfg.Password.Bcrypt.Cost == 0 {
		cfg.Password.Bcrypt.Cost = 12
	}

	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	setBool(&cfg.Mail.UseTLS, true)
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	setBool(&cfg.Security.RateLimit.Enabled, true)
	if cfg.Security.RateLimit.RequestsPerMinute == 0 {
		cfg.Security.RateLimit.RequestsPerMinute = 60
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.Env == "prod" {
			cfg.Log.Format = "json"
		}
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так, возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	// Базовая проверка сервера
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		// TLS 1.0/1.1 считаются небезопасными, запрещаем
		if c.TLS.MinVersion != "1.2" && c.TLS.MinVersion != "1.3" {
			return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	// База данных
	if err := requireValue("db.dsn", "DATABASE_URL", c.DB.DSN); err != nil {
		return err
	}

	// Фронтенд, на него ведут ссылки из писем
	if err := requireValue("app.frontend_url", "FRONTEND_URL", c.App.FrontendURL); err != nil {
		return err
	}
	u, err := url.Parse(c.App.FrontendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("app.frontend_url должен быть абсолютным http(s) URL (сейчас %q)", c.App.FrontendURL)
	}

	// JWT
	switch c.Auth.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256|HS384|HS512 (сейчас %q)", c.Auth.JWT.Algorithm)
	}
	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if err := requireValue("auth.jwt.signing_key", "SECRET_KEY", key); err != nil {
		return err
	}
	// Для HMAC ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth.token_ttl_minutes должен быть > 0 (сейчас %d)", c.Auth.TokenTTLMinutes)
	}

	// Хэширование паролей
	switch c.Password.Hasher {
	case "argon2id":
		a := c.Password.Argon2
		if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 || a.KeyLen == 0 || a.SaltLen == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost < 4 || c.Password.Bcrypt.Cost > 31 {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне 4..31 (сейчас %d)", c.Password.Bcrypt.Cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}

	// Почта
	if err := requireValue("mail.host", "MAIL_HOST", c.Mail.Host); err != nil {
		return err
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("mail.port некорректен: %d", c.Mail.Port)
	}
	if hasPlaceholder(c.Mail.Username) || hasPlaceholder(c.Mail.Password) {
		return errors.New("mail.username/mail.password содержат неподставленную переменную (нужно задать MAIL_USERNAME/MAIL_PASSWORD)")
	}
	if c.Mail.From == "" {
		return errors.New("mail.from обязателен (или задай MAIL_USERNAME)")
	}

	// Rate limit
	if c.RateLimitEnabled() && c.Security.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("security.rate_limit.requests_per_minute должен быть > 0 при включённом rate_limit")
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format должен быть json|console (сейчас %q)", c.Log.Format)
	}

	return nil
}

// TokenTTL возвращает срок жизни токенов.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// SecureCookie — ставить ли флаг Secure у cookie сессии.
func (c *Config) SecureCookie() bool {
	return c.Cookie.Secure == nil || *c.Cookie.Secure
}

// MailUseTLS — включать ли STARTTLS.
func (c *Config) MailUseTLS() bool {
	return c.Mail.UseTLS == nil || *c.Mail.UseTLS
}

// MigrationsEnabled — применять ли миграции при старте.
func (c *Config) MigrationsEnabled() bool {
	return c.Migrations.Enabled == nil || *c.Migrations.Enabled
}

// RateLimitEnabled — включён ли rate limit на /auth.
func (c *Config) RateLimitEnabled() bool {
	return c.Security.RateLimit.Enabled == nil || *c.Security.RateLimit.Enabled
}

// IsProduction возвращает true, если сервер запущен в prod окружении.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "prod"
}

func requireValue(field, env, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s обязателен (через %s или в yaml)", field, env)
	}
	// Если ${VAR} не подставился, значит переменная окружения не задана
	if hasPlaceholder(v) {
		return fmt.Errorf("%s содержит неподставленную переменную: %q (нужно задать %s)", field, v, env)
	}
	return nil
}

func hasPlaceholder(v string) bool {
	return strings.Contains(v, "${") && strings.Contains(v, "}")
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

func setBool(b **bool, def bool) {
	if *b == nil {
		v := def
		*b = &v
	}
}
