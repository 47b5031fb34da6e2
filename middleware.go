package main

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytes += n
	return n, err
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header)
	for k, vv := range h {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			out[k] = []string{"<redacted>"}
			continue
		}
		out[k] = vv
	}
	return out
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.Debug("incoming request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.String("remote", r.RemoteAddr),
			zap.Any("headers", redactHeaders(r.Header)),
		)

		lrw := &loggingResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lrw, r)

		if lrw.status == 0 {
			lrw.status = http.StatusOK
		}
		logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Int("status", lrw.status),
			zap.Int("bytes", lrw.bytes),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
