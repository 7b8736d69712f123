// Package api serves the overlay's debug HTTP endpoints.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/ipc"
	"github.com/Snehit70/voice-cli/internal/render"
	"github.com/Snehit70/voice-cli/internal/waveform"
)

// StatusSource reports the IPC client state.
type StatusSource interface {
	Status() ipc.Status
}

// QueueSource reports how full the sample queue is.
type QueueSource interface {
	Len() int
	Cap() int
}

// SizeSource reports the live surface size.
type SizeSource interface {
	Size() (int, int)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store  *waveform.Store
	client StatusSource
	queue  QueueSource
	size   SizeSource
	logger *zap.Logger
}

// NewHandlers creates handlers reading live overlay state.
func NewHandlers(store *waveform.Store, client StatusSource, queue QueueSource, size SizeSource, logger *zap.Logger) *Handlers {
	return &Handlers{store: store, client: client, queue: queue, size: size, logger: logger}
}

// Router returns the debug API router.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", h.State)
		r.Get("/frame.png", h.Frame)
	})
	return r
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type surfaceSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type queueState struct {
	Depth    int `json:"depth"`
	Capacity int `json:"capacity"`
}

type stateResponse struct {
	Waveform waveform.Snapshot `json:"waveform"`
	Client   ipc.Status        `json:"client"`
	Queue    queueState        `json:"queue"`
	Surface  surfaceSize       `json:"surface"`
}

// State handles GET /v1/state.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	width, height := h.size.Size()
	resp := stateResponse{
		Waveform: h.store.Snapshot(),
		Client:   h.client.Status(),
		Queue:    queueState{Depth: h.queue.Len(), Capacity: h.queue.Cap()},
		Surface:  surfaceSize{Width: width, Height: height},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Frame handles GET /v1/frame.png. It renders the current store contents at
// the live surface size; the host's own frame buffer is never touched.
func (h *Handlers) Frame(w http.ResponseWriter, r *http.Request) {
	width, height := h.size.Size()
	frame := render.Render(h.store.Snapshot(), width, height)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.EncodePNG(w, frame, width, height); err != nil {
		h.logger.Error("encode frame failed", zap.Error(err))
		http.Error(w, "encode frame failed", http.StatusInternalServerError)
	}
}
