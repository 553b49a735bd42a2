// Package logging builds the zerolog logger used by the server and CLI.
package logging

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	v "github.com/Gobd/reqvalidation"
)

// New returns a timestamped logger writing to w. format "console" selects
// the human readable writer, anything else JSON. An unknown level falls
// back to info.
func New(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// AccessLog logs one debug line per request.
func AccessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// Rejections returns a pipe reject hook logging each rejected request.
func Rejections(log zerolog.Logger) v.RejectHook {
	return func(r *http.Request, err *v.BadRequestError) {
		ev := log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Str("part", string(err.Part)).
			Int("errors", len(err.Errors))
		if len(err.Errors) > 0 {
			ev = ev.Str("first_field", err.Errors[0].Field)
		}
		ev.Msg("request rejected")
	}
}
