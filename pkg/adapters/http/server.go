package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/morph"
	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the part of the morph engine the server drives.
type Engine interface {
	Current() domain.Orientation
	Observe(ctx context.Context, reading domain.Orientation) bool
	Capture(ctx context.Context, id string, o domain.Orientation) error
	CaptureAll(ctx context.Context, o domain.Orientation) domain.Report
	Apply(ctx context.Context, o domain.Orientation) domain.Report
	Clear()
	Entries() []domain.Entry
}

// Scene gives the server host-side access to elements, standing in for the
// UI framework when morph runs headless.
type Scene interface {
	ports.ElementResolver
	Detach(id string) bool
}

// Server exposes an Engine over HTTP.
type Server struct {
	Engine  Engine
	Scene   Scene
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks are already wired into the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger configures a logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
// The element routes are only mounted when scene is non-nil.
func NewHandler(engine Engine, scene Scene, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		Scene:  scene,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/orientation", server.GetOrientation)
	r.Post("/orientation", server.PostOrientation)
	r.Get("/events", server.SubscribeEvents)

	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", server.GetLayouts)
		r.Delete("/", server.ClearLayouts)
		r.Post("/capture", server.CaptureLayouts)
		r.Post("/apply", server.ApplyLayouts)
	})

	if scene != nil {
		r.Route("/elements/{id}", func(r chi.Router) {
			r.Get("/", server.GetElement)
			r.Put("/", server.PutElement)
			r.Delete("/", server.DeleteElement)
		})
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OrientationRequest is the body of POST /orientation. Exactly one way of
// describing the reading is used, checked in field order.
type OrientationRequest struct {
	Orientation string  `json:"orientation,omitempty"`
	Raw         string  `json:"raw,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

// OrientationResponse reports the committed class.
type OrientationResponse struct {
	Orientation domain.Orientation `json:"orientation"`
	Changed     bool               `json:"changed"`
}

// LayoutRequest is the body of the capture and apply endpoints.
// An empty orientation means the currently committed one.
type LayoutRequest struct {
	Orientation string `json:"orientation,omitempty"`
	ElementID   string `json:"element_id,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "morph-http",
		"version": strings.TrimSpace(morph.Version),
	})
}

// GetOrientation handles the GET /orientation request.
func (s *Server) GetOrientation(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, OrientationResponse{Orientation: s.Engine.Current()})
}

// PostOrientation handles the POST /orientation request, pushing one reading
// into the monitor. Unknown readings are accepted and ignored.
func (s *Server) PostOrientation(w http.ResponseWriter, r *http.Request) {
	var body OrientationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostOrientation: Invalid request body", "err", err)
		return
	}

	var reading domain.Orientation
	switch {
	case body.Orientation != "":
		o, err := domain.ParseOrientation(body.Orientation)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reading = o
	case body.Raw != "":
		reading = domain.Classify(body.Raw)
	default:
		reading = domain.ClassifyDimensions(body.Width, body.Height)
	}

	changed := s.Engine.Observe(r.Context(), reading)
	s.writeJSON(w, http.StatusOK, OrientationResponse{Orientation: s.Engine.Current(), Changed: changed})
}

// GetLayouts handles the GET /layouts request.
func (s *Server) GetLayouts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Entries())
}

// ClearLayouts handles the DELETE /layouts request.
func (s *Server) ClearLayouts(w http.ResponseWriter, r *http.Request) {
	s.Engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// CaptureLayouts handles the POST /layouts/capture request.
func (s *Server) CaptureLayouts(w http.ResponseWriter, r *http.Request) {
	body, o, ok := s.layoutRequest(w, r)
	if !ok {
		return
	}

	if body.ElementID == "" {
		s.writeJSON(w, http.StatusOK, s.Engine.CaptureAll(r.Context(), o))
		return
	}

	if err := s.Engine.Capture(r.Context(), body.ElementID, o); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeJSON(w, http.StatusOK, domain.Report{Orientation: o, Elements: []string{body.ElementID}})
}

// ApplyLayouts handles the POST /layouts/apply request.
func (s *Server) ApplyLayouts(w http.ResponseWriter, r *http.Request) {
	_, o, ok := s.layoutRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Apply(r.Context(), o))
}

func (s *Server) layoutRequest(w http.ResponseWriter, r *http.Request) (LayoutRequest, domain.Orientation, bool) {
	var body LayoutRequest
	// An empty body, chunked or not, means "all elements, current orientation".
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid layout request body", "err", err)
		return body, domain.OrientationUnknown, false
	}

	o := s.Engine.Current()
	if body.Orientation != "" {
		parsed, err := domain.ParseOrientation(body.Orientation)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return body, domain.OrientationUnknown, false
		}
		o = parsed
	}
	if !o.Valid() {
		http.Error(w, fmt.Sprintf("%v: orientation must be portrait or landscape", domain.ErrInvalidOrientation), http.StatusBadRequest)
		return body, domain.OrientationUnknown, false
	}
	return body, o, true
}

// GetElement handles the GET /elements/{id} request.
func (s *Server) GetElement(w http.ResponseWriter, r *http.Request) {
	el, err := s.Scene.Resolve(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	snap, err := el.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// PutElement handles the PUT /elements/{id} request, moving the element the
// way the host UI would.
func (s *Server) PutElement(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	el, err := s.Scene.Resolve(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := el.Restore(snap); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteElement handles the DELETE /elements/{id} request, destroying the element.
func (s *Server) DeleteElement(w http.ResponseWriter, r *http.Request) {
	if !s.Scene.Detach(chi.URLParam(r, "id")) {
		http.Error(w, domain.ErrElementNotFound.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional topic query parameter is a comma separated list of
// "orientation" and "layout"; both are streamed by default.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	topics := []string{TopicOrientation, TopicLayout}
	if q := r.URL.Query().Get("topic"); q != "" {
		topics = topics[:0]
		for _, t := range strings.Split(q, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(topics...)
	defer cancel()

	s.logger.Info("SSE: Client subscribed", "topics", topics)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case <-s.Streams.Done():
			s.logger.Info("SSE: Stream closed by server")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Topic, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOrientation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrElementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrElementInvalid):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
