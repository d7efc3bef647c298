package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxFormBytes caps the request body; the form carries a single URL.
const maxFormBytes = 1 << 20

// NewServer wires the scrape endpoint and middleware into an http.Server.
func NewServer(cfg Config, a *App) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// Handler returns the service's HTTP handler: POST /scrape plus JSON 404s
// for every other path.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scrape", a.handleScrape)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Not Found")
	})

	var handler http.Handler = mux
	handler = recoveryMiddleware(handler)
	handler = requestLoggerMiddleware(handler)
	return handler
}

func (a *App) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	rawURL := r.PostFormValue("url")
	if rawURL == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "url is required")
		return
	}

	ctx := r.Context()
	resp, err := a.Scrape(ctx, rawURL)
	if err != nil {
		var se *ScrapeError
		if errors.As(err, &se) {
			zerolog.Ctx(ctx).Debug().Err(err).Str("url", rawURL).Msg("scrape failed")
			writeError(w, r, se.Status, se.Detail)
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("url", rawURL).Msg("scrape failed")
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeJSON(w, r, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encode response failed")
	}
}

// responseRecorder captures status and bytes written.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// requestLoggerMiddleware attaches a request-scoped logger to the context and
// emits one access line per request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		logger := log.Logger.With().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		lvl := zerolog.InfoLevel
		if rec.status >= 500 {
			lvl = zerolog.ErrorLevel
		} else if rec.status >= 400 {
			lvl = zerolog.WarnLevel
		}
		logger.WithLevel(lvl).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				zerolog.Ctx(r.Context()).Error().Interface("panic", v).Msg("panic recovered")
				writeError(w, r, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
