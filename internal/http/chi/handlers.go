package chi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"

	"github.com/marcelsud/session-bridge/command"
	"github.com/marcelsud/session-bridge/session"
)

// Readiness reports whether the connection can accept commands
type Readiness interface {
	IsReady() bool
}

// Handlers sets up the command API routes of one session; metrics and files are optional
func Handlers(ctx context.Context, commands command.UseCase, status session.UseCase, ready Readiness, metrics, files http.Handler) *chi.Mux {
	logger := httplog.NewLogger("session-bridge", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	}))

	r.Get("/health", getHealth(status, ready).ServeHTTP)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/send-text", postSendText(commands).ServeHTTP)
		r.Post("/seen", postSeen(commands).ServeHTTP)
		r.Post("/typing", postTyping(commands).ServeHTTP)
		r.Post("/send-image", postSendImage(commands).ServeHTTP)
		r.Post("/waha-webhook", postRelay(commands).ServeHTTP)
		if files != nil {
			r.Get("/files/*", files.ServeHTTP)
		}
	})

	return r
}

// Files serves stored media mounted at /api/files, directory listings are not exposed
func Files(dir string) http.Handler {
	files := http.StripPrefix("/api/files/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
