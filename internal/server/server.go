package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/media"
)

// Dispatcher accepts parsed webhook events for asynchronous handling.
type Dispatcher interface {
	Dispatch(ctx context.Context, event line.Event) error
}

type Server struct {
	line       line.Client
	dispatcher Dispatcher
	media      *media.Store
	logger     logger.Logger
}

func New(client line.Client, dispatcher Dispatcher, store *media.Store, log logger.Logger) *Server {
	return &Server{
		line:       client,
		dispatcher: dispatcher,
		media:      store,
		logger:     log.WithField("component", "server"),
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() *mux.Router {
	root := mux.NewRouter()
	root.Use(s.recoverer)

	root.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	root.HandleFunc("/", s.handleWebhook).Methods(http.MethodPost)
	root.HandleFunc("/images/{filename}", s.handleMedia).Methods(http.MethodGet, http.MethodHead)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return root
}

// NewHTTPServer builds the listener for the router. Request contexts derive
// from ctx.
func (s *Server) NewHTTPServer(ctx context.Context, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Line Webhook Server"})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	events, err := s.line.ParseRequest(r)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			s.logger.Warn("Invalid signature. Please check your channel access token/channel secret.")
			http.Error(w, "Invalid signature", http.StatusBadRequest)
			return
		}
		s.logger.WithError(err).Error("Failed to parse webhook request")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	s.logger.WithField("events", len(events)).Debug("Webhook received")
	for _, event := range events {
		if err := s.dispatcher.Dispatch(r.Context(), event); err != nil {
			s.logger.WithError(err).WithFields(logger.Fields{
				"kind":    event.Kind,
				"user_id": event.UserID,
			}).Warn("Event was not queued")
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	path, err := s.media.Open(name)
	if err != nil {
		s.logger.WithError(err).WithField("filename", name).Debug("Media not served")
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.WithFields(logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Error(fmt.Sprintf("recovered from panic: %v", rec))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
