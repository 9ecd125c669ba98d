package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

type chargePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Q float64 `json:"q"`
}

type settingsPayload struct {
	LinesPerCharge int    `json:"lines_per_charge"`
	Length         int    `json:"length"`
	Resolution     int    `json:"resolution"`
	TolExp         int    `json:"tol_exp"`
	Stepper        string `json:"stepper"`
}

type scenePayload struct {
	Charges  []chargePayload `json:"charges"`
	Lines    [][][2]float64  `json:"lines"`
	Settings settingsPayload `json:"settings"`
}

// scenePayload traces the current system and marshals the scene.
// Callers hold the state lock.
func (s *Server) scenePayload(ctx context.Context) ([]byte, error) {
	lines, err := s.trace(ctx)
	if err != nil {
		return nil, err
	}

	payload := scenePayload{
		Charges: make([]chargePayload, len(s.sys.Charges)),
		Lines:   make([][][2]float64, len(lines)),
		Settings: settingsPayload{
			LinesPerCharge: s.settings.LinesPerCharge,
			Length:         s.settings.Length,
			Resolution:     s.settings.Resolution,
			TolExp:         s.tolExp,
			Stepper:        s.stepper,
		},
	}
	for i, c := range s.sys.Charges {
		payload.Charges[i] = chargePayload{X: c.Position.X, Y: c.Position.Y, Q: c.Value}
	}
	for i, line := range lines {
		pts := make([][2]float64, len(line))
		for j, p := range line {
			pts[j] = [2]float64{p.X, p.Y}
		}
		payload.Lines[i] = pts
	}

	return json.Marshal(payload)
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) sceneHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.scenePayload(r.Context())
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) chargeHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad charge index: %w", err))
		return
	}

	var payload chargePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.X < -positionLim || payload.X > positionLim ||
		payload.Y < -positionLim || payload.Y > positionLim {
		writeError(w, http.StatusBadRequest, fmt.Errorf("position outside [%.0f, %.0f]", -positionLim, positionLim))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sys.Charges) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no charge %d", index))
		return
	}

	s.sys.Charges[index] = field.Charge{
		Position: field.Vec{X: payload.X, Y: payload.Y},
		Value:    payload.Q,
	}
	s.log.Debug("charge updated",
		zap.Int("index", index),
		zap.Float64("x", payload.X),
		zap.Float64("y", payload.Y),
		zap.Float64("q", payload.Q),
	)

	s.broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addChargeHandler(w http.ResponseWriter, r *http.Request) {
	var payload chargePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.X < -positionLim || payload.X > positionLim ||
		payload.Y < -positionLim || payload.Y > positionLim {
		writeError(w, http.StatusBadRequest, fmt.Errorf("position outside [%.0f, %.0f]", -positionLim, positionLim))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sys.Charges) >= chargesInterval[1] {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at most %d charges", chargesInterval[1]))
		return
	}

	s.sys.Charges = append(s.sys.Charges, field.Charge{
		Position: field.Vec{X: payload.X, Y: payload.Y},
		Value:    payload.Q,
	})
	s.log.Debug("charge added",
		zap.Int("count", len(s.sys.Charges)),
		zap.Float64("x", payload.X),
		zap.Float64("y", payload.Y),
		zap.Float64("q", payload.Q),
	)

	s.broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeChargeHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad charge index: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sys.Charges) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no charge %d", index))
		return
	}
	if len(s.sys.Charges) <= chargesInterval[0] {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at least %d charges", chargesInterval[0]))
		return
	}

	s.sys.Charges = append(s.sys.Charges[:index], s.sys.Charges[index+1:]...)
	s.log.Debug("charge removed",
		zap.Int("index", index),
		zap.Int("count", len(s.sys.Charges)),
	)

	s.broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) settingsHandler(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := validateSettings(payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.LinesPerCharge = payload.LinesPerCharge
	s.settings.Length = payload.Length
	s.settings.Resolution = payload.Resolution
	s.tolExp = payload.TolExp
	s.settings.ApproachTol = tolerance(payload.TolExp)
	if payload.Stepper != "" {
		s.stepper = payload.Stepper
	}
	s.log.Debug("settings updated",
		zap.Int("lines_per_charge", payload.LinesPerCharge),
		zap.Int("length", payload.Length),
		zap.Int("resolution", payload.Resolution),
		zap.Int("tol_exp", payload.TolExp),
	)

	s.broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func validateSettings(p settingsPayload) error {
	checks := []struct {
		name     string
		value    int
		interval [2]int
	}{
		{"lines_per_charge", p.LinesPerCharge, linesInterval},
		{"length", p.Length, lengthInterval},
		{"resolution", p.Resolution, resolutionInterval},
		{"tol_exp", p.TolExp, tolExpInterval},
	}
	for _, c := range checks {
		if c.value < c.interval[0] || c.value > c.interval[1] {
			return fmt.Errorf("%s must be in [%d, %d], got %d", c.name, c.interval[0], c.interval[1], c.value)
		}
	}
	if p.Stepper != "" {
		if _, err := tracer.NewStepper(p.Stepper); err != nil {
			return err
		}
	}
	return nil
}

func tolerance(exp int) float64 {
	tol := 1.0
	for i := 0; i < exp; i++ {
		tol /= 10
	}
	return tol
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
