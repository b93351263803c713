package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"github.com/sendrec/moviedetail/internal/geoip"
	"github.com/sendrec/moviedetail/internal/httputil"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(geo *geoip.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			ip := httputil.ClientIP(r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", ip,
			}
			if ua := r.UserAgent(); ua != "" {
				parsed := useragent.New(ua)
				browser, version := parsed.Browser()
				attrs = append(attrs,
					"browser", browser,
					"browser_version", version,
					"os", parsed.OS(),
					"mobile", parsed.Mobile(),
					"bot", parsed.Bot(),
				)
			}
			if country := geo.Country(ip); country != "" {
				attrs = append(attrs, "country", country)
			}

			slog.Info("http request", attrs...)
		})
	}
}
