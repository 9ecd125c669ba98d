package tracer

import "github.com/san-kum/fieldsim/internal/field"

// Summarize computes run metrics over a set of traced lines: counts,
// mean arc length, how many lines terminated on a charge approach, and
// the configuration energy.
func Summarize(sys *field.System, settings Settings, lines []Line) map[string]float64 {
	maxPoints := settings.Length*settings.Resolution + 1

	totalPoints := 0
	totalArc := 0.0
	terminated := 0
	for _, line := range lines {
		totalPoints += len(line)
		totalArc += line.ArcLength()
		if len(line) < maxPoints {
			terminated++
		}
	}

	m := map[string]float64{
		"line_count":   float64(len(lines)),
		"total_points": float64(totalPoints),
		"terminated":   float64(terminated),
		"energy":       sys.Energy(),
	}
	if len(lines) > 0 {
		m["mean_arc_length"] = totalArc / float64(len(lines))
	}
	return m
}
