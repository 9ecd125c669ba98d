package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

func traceTestRun(t *testing.T) (*field.System, tracer.Settings, []tracer.Line) {
	t.Helper()

	sys := field.Dipole(5, 1)
	st := tracer.DefaultSettings()
	st.LinesPerCharge = 6

	lines, err := tracer.New(st, tracer.NewEuler()).TraceAll(context.Background(), sys)
	if err != nil {
		t.Fatal(err)
	}
	return sys, st, lines
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sys, st, lines := traceTestRun(t)

	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("dipole", "euler", 7, st, sys, lines, map[string]float64{"line_count": float64(len(lines))})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runID, "dipole_") {
		t.Errorf("run id should carry the arrangement, got %s", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Stepper != "euler" || meta.Seed != 7 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if len(meta.Charges) != 2 {
		t.Errorf("expected 2 charges in metadata, got %d", len(meta.Charges))
	}
	if meta.Settings.LinesPerCharge != 6 {
		t.Errorf("expected 6 lines per charge, got %d", meta.Settings.LinesPerCharge)
	}

	loaded, err := store.LoadLines(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(lines) {
		t.Fatalf("expected %d lines, got %d", len(lines), len(loaded))
	}
	for i := range lines {
		if len(loaded[i]) != len(lines[i]) {
			t.Errorf("line %d: expected %d points, got %d", i, len(lines[i]), len(loaded[i]))
		}
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := store.LoadLines("nope"); err == nil {
		t.Error("expected error for unknown run lines")
	}
}

func TestListNewestFirst(t *testing.T) {
	sys, st, lines := traceTestRun(t)

	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save("dipole", "euler", 1, st, sys, lines, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("dipole", "rk4", 2, st, sys, lines, nil); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("runs should be listed newest first")
	}
}

func TestListEmptyDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/missing").List()
	if err != nil {
		t.Fatal(err)
	}
	if runs != nil {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	sys, st, lines := traceTestRun(t)

	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := store.Save("dipole", "euler", 7, st, sys, lines, nil)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, lines); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.ID != runID || len(data.Lines) != len(lines) {
		t.Errorf("export mismatch: id=%s lines=%d", data.ID, len(data.Lines))
	}
	if len(data.Lines[0]) != len(lines[0]) {
		t.Errorf("export dropped points: %d vs %d", len(data.Lines[0]), len(lines[0]))
	}
}
