package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

// Store persists traced runs under a base directory, one directory per
// run holding metadata.json and lines.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ChargeMeta struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Q float64 `json:"q"`
}

type SettingsMeta struct {
	LinesPerCharge int     `json:"lines_per_charge"`
	Length         int     `json:"length"`
	Resolution     int     `json:"resolution"`
	ApproachTol    float64 `json:"approach_tol"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Arrangement string             `json:"arrangement"`
	Timestamp   time.Time          `json:"timestamp"`
	Stepper     string             `json:"stepper"`
	Seed        int64              `json:"seed"`
	Settings    SettingsMeta       `json:"settings"`
	Charges     []ChargeMeta       `json:"charges"`
	Metrics     map[string]float64 `json:"metrics"`
}

func settingsMeta(st tracer.Settings) SettingsMeta {
	return SettingsMeta{
		LinesPerCharge: st.LinesPerCharge,
		Length:         st.Length,
		Resolution:     st.Resolution,
		ApproachTol:    st.ApproachTol,
	}
}

func chargeMeta(sys *field.System) []ChargeMeta {
	charges := make([]ChargeMeta, len(sys.Charges))
	for i, c := range sys.Charges {
		charges[i] = ChargeMeta{X: c.Position.X, Y: c.Position.Y, Q: c.Value}
	}
	return charges
}

// Save writes a run directory and returns the run id.
func (s *Store) Save(arrangement, stepper string, seed int64, st tracer.Settings, sys *field.System, lines []tracer.Line, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%s", arrangement, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Arrangement: arrangement,
		Timestamp:   time.Now(),
		Stepper:     stepper,
		Seed:        seed,
		Settings:    settingsMeta(st),
		Charges:     chargeMeta(sys),
		Metrics:     metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "lines.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"line", "point", "x", "y"}); err != nil {
		return "", err
	}
	for li, line := range lines {
		for pi, p := range line {
			row := []string{
				strconv.Itoa(li),
				strconv.Itoa(pi),
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

// Load reads a run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadLines reads a run's field lines back from lines.csv.
func (s *Store) LoadLines(runID string) ([]tracer.Line, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "lines.csv"))
	if err != nil {
		return nil, fmt.Errorf("run has no line data: %s", runID)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	var lines []tracer.Line
	for i, rec := range records {
		if i == 0 || len(rec) < 4 {
			continue
		}
		li, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("bad line index at row %d: %w", i, err)
		}
		x, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, err
		}
		for li >= len(lines) {
			lines = append(lines, tracer.Line{})
		}
		lines[li] = append(lines[li], field.Vec{X: x, Y: y})
	}

	return lines, nil
}

// List returns all stored runs, newest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}
