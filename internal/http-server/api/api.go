package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ShopBot/internal/config"
	"ShopBot/internal/http-server/handlers/catalog"
	"ShopBot/internal/http-server/handlers/conversation"
	handlererr "ShopBot/internal/http-server/handlers/errors"
	"ShopBot/internal/http-server/middleware/authenticate"
	"ShopBot/internal/lib/sl"
	"ShopBot/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 30 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	conversation.Core
	catalog.Core
}

// Options carries the optional parts of the router.
type Options struct {
	Hub      *ws.Hub
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP routes.
func NewRouter(log *slog.Logger, handler Handler, opts Options) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(handlererr.NotFound(log))
	router.MethodNotAllowed(handlererr.NotAllowed(log))

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Hub != nil {
		router.Get("/ws", ws.Handler(opts.Hub, handler, log))
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.Timeout(requestTimeout))
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Post("/workflows/{workflow}/start", conversation.Start(log, handler))
		v1.Get("/conversations", conversation.List(log, handler))
		v1.Route("/conversations/{id}", func(r chi.Router) {
			r.Get("/", conversation.State(log, handler))
			r.Delete("/", conversation.Reset(log, handler))
			r.Post("/resume", conversation.Resume(log, handler))
			r.Get("/dialogs", conversation.Dialogs(log, handler))
		})
		v1.Get("/catalog", catalog.Coverage(log, handler))
	})

	return router
}

// New serves the API until ctx is cancelled.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, opts Options) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler, opts),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("shutdown", sl.Err(err))
		}
	}()

	err = server.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
