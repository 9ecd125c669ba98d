package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

// DefaultPort is the port the serve command binds by default.
const DefaultPort = "5006"

// Control intervals for the browser sliders.
var (
	chargesInterval    = [2]int{2, 8}
	linesInterval      = [2]int{6, 40}
	lengthInterval     = [2]int{10, 100}
	resolutionInterval = [2]int{1, 10}
	tolExpInterval     = [2]int{1, 10}
	positionLim        = 10.0
)

// Server renders charges and field lines in a browser and accepts
// charge/setting updates, pushing recomputed scenes to websocket
// subscribers.
type Server struct {
	log     *zap.Logger
	hub     *hub
	stepper string

	mu       sync.Mutex
	sys      *field.System
	settings tracer.Settings
	tolExp   int
}

func NewServer(log *zap.Logger, sys *field.System, settings tracer.Settings, tolExp int, stepper string) *Server {
	s := &Server{
		log:      log,
		sys:      sys,
		settings: settings,
		tolExp:   tolExp,
		stepper:  stepper,
		hub:      newHub(log),
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.pageHandler)
	r.Methods(http.MethodGet).Path("/api/scene").HandlerFunc(s.sceneHandler)
	r.Methods(http.MethodPost).Path("/api/charges").HandlerFunc(s.addChargeHandler)
	r.Methods(http.MethodPost).Path("/api/charges/{index}").HandlerFunc(s.chargeHandler)
	r.Methods(http.MethodDelete).Path("/api/charges/{index}").HandlerFunc(s.removeChargeHandler)
	r.Methods(http.MethodPost).Path("/api/settings").HandlerFunc(s.settingsHandler)
	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.wsHandler)
	return r
}

// Launch serves until the context is canceled, then shuts down
// gracefully.
func (s *Server) Launch(ctx context.Context, addr string) error {
	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}).Handler(s.logMiddleware(s.Router()))

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go s.hub.run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting field server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// trace recomputes the field lines under the state lock.
func (s *Server) trace(ctx context.Context) ([]tracer.Line, error) {
	st, err := tracer.NewStepper(s.stepper)
	if err != nil {
		return nil, err
	}
	return tracer.New(s.settings, st).TraceAll(ctx, s.sys)
}

// broadcast pushes the current scene to all websocket subscribers.
// Callers hold the state lock.
func (s *Server) broadcast(ctx context.Context) {
	payload, err := s.scenePayload(ctx)
	if err != nil {
		s.log.Warn("scene broadcast failed", zap.Error(err))
		return
	}
	s.hub.broadcast(payload)
}
