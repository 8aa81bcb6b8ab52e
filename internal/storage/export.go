package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// CSVHeader lists the candidate table columns: identity and hardware first,
// then every solver metric.
func CSVHeader() []string {
	header := []string{
		"index", "status", "failure", "on_front", "rank", "utility",
		"propeller", "motor", "battery", "esc", "motor_count", "throttle",
		"temperature_c", "altitude_m", "base_mass_kg",
	}
	header = append(header, solver.MetricNames()...)
	return append(header, "iterations", "violations", "error")
}

func csvRow(c tradespace.Candidate) []string {
	cfg := c.Configuration
	row := []string{
		strconv.Itoa(c.Index),
		string(c.Status),
		string(c.Failure),
		strconv.FormatBool(c.OnFront),
		strconv.Itoa(c.Rank),
		formatFloat(c.Utility),
		cfg.Propeller.Name,
		cfg.Motor.Name,
		cfg.Battery.Name,
		cfg.ESC.Name,
		strconv.Itoa(cfg.MotorCount),
		formatFloat(cfg.Throttle),
		formatFloat(cfg.Environment.Temperature),
		formatFloat(cfg.Environment.Altitude),
		formatFloat(cfg.BaseMass),
	}
	for _, name := range solver.MetricNames() {
		if c.Status == tradespace.StatusUnevaluable {
			row = append(row, "")
			continue
		}
		v, _ := c.Result.Metric(name)
		row = append(row, formatFloat(v))
	}
	violations := ""
	for i, reason := range c.Verdict.Reasons() {
		if i > 0 {
			violations += "; "
		}
		violations += reason
	}
	return append(row, strconv.Itoa(c.Result.Iterations), violations, c.Error)
}

// WriteCSV writes the candidate table, or just the front when frontOnly.
func WriteCSV(w io.Writer, r *tradespace.SweepResult, frontOnly bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return err
	}
	rows := r.Candidates
	if frontOnly {
		rows = r.Front
	}
	for _, c := range rows {
		if err := cw.Write(csvRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, r *tradespace.SweepResult, frontOnly bool) error {
	return createFile(path, func(w io.Writer) error { return WriteCSV(w, r, frontOnly) })
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ExportJSON(path string, v any) error {
	return createFile(path, func(w io.Writer) error { return WriteJSON(w, v) })
}

// createFile runs write against a new file at path. A close error is
// returned when the write itself succeeded.
func createFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// ExportJSONStdout writes v to standard output.
func ExportJSONStdout(v any) error {
	return WriteJSON(os.Stdout, v)
}
