// Package logger настраивает zap для сервера Sysane: файл с ротацией
// (lumberjack), опционально копия в stderr, плюс LogRequest для access-лога.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultDir — каталог логов по умолчанию (относительно рабочей директории).
var DefaultDir = filepath.Join("runtime", "logs")

// FileName — имя файла лога внутри Dir.
const FileName = "server.log"

// Options описывает куда, в каком формате и с каким уровнем писать логи.
// Нулевые значения заменяются дефолтами.
type Options struct {
	Dir     string
	Level   string // debug|info|warn|error, иначе info
	Format  string // json|console, иначе console
	Console bool   // дублировать в stderr

	MaxSizeMB  int // 100
	MaxBackups int // 10
	MaxAgeDays int // 30
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 10
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

// HTTPLogger встраивает *zap.Logger, поэтому доступны все методы zap.
type HTTPLogger struct {
	*zap.Logger
}

// NewHTTPLogger создаёт логгер, пишущий в <Dir>/server.log.
func NewHTTPLogger(opts Options) *HTTPLogger {
	opts = opts.withDefaults()
	_ = os.MkdirAll(opts.Dir, 0o755)

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	level := parseLevel(opts.Level)
	encoder := newEncoder(opts.Format)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(rotating), level)}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(os.Stderr), level))
	}

	return &HTTPLogger{
		Logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)),
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = customTimeEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// NewNop возвращает логгер, который ничего не пишет. Удобно в тестах.
func NewNop() *HTTPLogger {
	return &HTTPLogger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах,
// requestID — идентификатор запроса (может быть пустым).
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64, requestID string) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	logger.Info("HTTP request", fields...)
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil || s == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
