package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fieldsim/internal/tracer"
)

// ExportData is the flat JSON export shape for a run.
type ExportData struct {
	ID          string             `json:"id"`
	Arrangement string             `json:"arrangement"`
	Stepper     string             `json:"stepper"`
	Settings    SettingsMeta       `json:"settings"`
	Charges     []ChargeMeta       `json:"charges"`
	Lines       [][][2]float64     `json:"lines"`
	Metrics     map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, lines []tracer.Line) ExportData {
	data := ExportData{
		ID:          meta.ID,
		Arrangement: meta.Arrangement,
		Stepper:     meta.Stepper,
		Settings:    meta.Settings,
		Charges:     meta.Charges,
		Lines:       make([][][2]float64, len(lines)),
		Metrics:     meta.Metrics,
	}
	for i, line := range lines {
		pts := make([][2]float64, len(line))
		for j, p := range line {
			pts[j] = [2]float64{p.X, p.Y}
		}
		data.Lines[i] = pts
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, lines []tracer.Line) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, lines))
}

func ExportJSONFile(path string, meta *RunMetadata, lines []tracer.Line) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, lines)
}
