package web

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

func testServer() *Server {
	sys := field.Dipole(5, 1)
	settings := tracer.DefaultSettings()
	settings.LinesPerCharge = 6
	return NewServer(zap.NewNop(), sys, settings, 1, "euler")
}

func TestSceneHandler(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/scene", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var scene scenePayload
	if err := json.Unmarshal(w.Body.Bytes(), &scene); err != nil {
		t.Fatalf("decoding scene: %v", err)
	}
	if len(scene.Charges) != 2 {
		t.Errorf("expected 2 charges, got %d", len(scene.Charges))
	}
	if len(scene.Lines) != 6 {
		t.Errorf("expected 6 lines for one negative charge, got %d", len(scene.Lines))
	}
	if scene.Settings.TolExp != 1 {
		t.Errorf("expected tol_exp 1, got %d", scene.Settings.TolExp)
	}
}

func TestChargeHandlerUpdates(t *testing.T) {
	srv := testServer()

	body, _ := json.Marshal(chargePayload{X: 3, Y: -4, Q: -2})
	req := httptest.NewRequest(http.MethodPost, "/api/charges/0", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	c := srv.sys.Charges[0]
	if c.Position.X != 3 || c.Position.Y != -4 || c.Value != -2 {
		t.Errorf("charge not updated: %+v", c)
	}
}

func TestChargeHandlerBounds(t *testing.T) {
	srv := testServer()

	tests := []struct {
		name string
		path string
		body chargePayload
		want int
	}{
		{"out of range position", "/api/charges/0", chargePayload{X: 11, Y: 0, Q: 1}, http.StatusBadRequest},
		{"unknown index", "/api/charges/7", chargePayload{X: 0, Y: 0, Q: 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader(body))
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestSettingsHandler(t *testing.T) {
	srv := testServer()

	payload := settingsPayload{LinesPerCharge: 10, Length: 30, Resolution: 2, TolExp: 3, Stepper: "rk4"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if srv.settings.LinesPerCharge != 10 || srv.settings.Length != 30 || srv.settings.Resolution != 2 {
		t.Errorf("settings not applied: %+v", srv.settings)
	}
	if math.Abs(srv.settings.ApproachTol-0.001) > 1e-12 {
		t.Errorf("expected tolerance 0.001, got %g", srv.settings.ApproachTol)
	}
	if srv.stepper != "rk4" {
		t.Errorf("expected stepper rk4, got %s", srv.stepper)
	}
}

func TestSettingsHandlerRejectsUnknownStepper(t *testing.T) {
	srv := testServer()

	payload := settingsPayload{LinesPerCharge: 10, Length: 30, Resolution: 2, TolExp: 3, Stepper: "bogus"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if srv.stepper != "euler" {
		t.Errorf("rejected stepper must not be stored, got %s", srv.stepper)
	}

	// The scene endpoint keeps working with the previous stepper.
	req = httptest.NewRequest(http.MethodGet, "/api/scene", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 after rejected settings, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddChargeHandler(t *testing.T) {
	srv := testServer()

	add := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(chargePayload{X: 0, Y: 0, Q: 1})
		req := httptest.NewRequest(http.MethodPost, "/api/charges", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w
	}

	for len(srv.sys.Charges) < chargesInterval[1] {
		if w := add(); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
		}
	}
	if w := add(); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 at %d charges, got %d", chargesInterval[1], w.Code)
	}
	if len(srv.sys.Charges) != chargesInterval[1] {
		t.Errorf("expected %d charges, got %d", chargesInterval[1], len(srv.sys.Charges))
	}
}

func TestRemoveChargeHandler(t *testing.T) {
	srv := testServer()

	body, _ := json.Marshal(chargePayload{X: 2, Y: 2, Q: -1})
	req := httptest.NewRequest(http.MethodPost, "/api/charges", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("setup add failed: %d", w.Code)
	}

	remove := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w
	}

	if w := remove("/api/charges/2"); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if len(srv.sys.Charges) != chargesInterval[0] {
		t.Fatalf("expected %d charges, got %d", chargesInterval[0], len(srv.sys.Charges))
	}
	if w := remove("/api/charges/0"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 at %d charges, got %d", chargesInterval[0], w.Code)
	}
	if w := remove("/api/charges/9"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown index, got %d", w.Code)
	}
}

func TestSettingsHandlerValidation(t *testing.T) {
	srv := testServer()

	payload := settingsPayload{LinesPerCharge: 5, Length: 30, Resolution: 2, TolExp: 3}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHubShutdownUnblocksPendingSends(t *testing.T) {
	h := newHub(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	// The guards in wsHandler and readLoop select on done, so neither
	// register nor unregister may block once run has exited.
	select {
	case <-h.done:
	default:
		t.Fatal("done should be closed after shutdown")
	}

	c := &client{send: make(chan []byte, 1)}
	select {
	case h.register <- c:
		t.Fatal("register accepted after shutdown")
	case <-h.done:
	}
	select {
	case h.unregister <- c:
		t.Fatal("unregister accepted after shutdown")
	case <-h.done:
	}
}

func TestPageHandler(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Electric Field from Point Charges")) {
		t.Errorf("page body missing title")
	}
}
