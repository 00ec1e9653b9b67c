// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gabrieldeam/sysane/internal/shared/logger"
)

// LoggerMiddleware пишет в лог каждый запрос: метод, uri, статус, размер, длительность и request id.
// Паника в обработчике логируется как 500 и пробрасывается дальше в Recoverer.
func LoggerMiddleware(log *logger.HTTPLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				rec := recover()

				status := ww.Status()
				switch {
				case rec != nil:
					status = http.StatusInternalServerError
				case status == 0:
					// обработчик ничего не записал
					status = http.StatusOK
				}
				elapsed := float64(time.Since(start).Microseconds()) / 1000
				log.LogRequest(r.Method, r.RequestURI, status, ww.BytesWritten(), elapsed, chimw.GetReqID(r.Context()))

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
