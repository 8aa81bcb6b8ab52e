package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/guisoares9/tradespace-designer/internal/pareto"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

const (
	metadataFile   = "metadata.json"
	requestFile    = "request.json"
	resultFile     = "result.json"
	candidatesFile = "candidates.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per sweep under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Objectives  []pareto.Objective `json:"objectives"`
	Total       int                `json:"total"`
	Planned     int                `json:"planned"`
	Evaluated   int                `json:"evaluated"`
	Feasible    int                `json:"feasible"`
	Rejected    int                `json:"rejected"`
	Unevaluable int                `json:"unevaluable"`
	FrontSize   int                `json:"front_size"`
	Truncated   bool               `json:"truncated"`
	Duration    time.Duration      `json:"duration_ns"`
}

func metadataOf(id, name string, r *tradespace.SweepResult) RunMetadata {
	return RunMetadata{
		ID:          id,
		Name:        name,
		Timestamp:   time.Now().UTC(),
		Objectives:  r.Objectives,
		Total:       r.Total,
		Planned:     r.Planned,
		Evaluated:   r.Evaluated,
		Feasible:    r.Feasible,
		Rejected:    r.Rejected,
		Unevaluable: r.Unevaluable,
		FrontSize:   len(r.Front),
		Truncated:   r.Truncated,
		Duration:    r.Duration,
	}
}

// Save writes the request, the full result and a flat candidate table, and
// returns the new run ID.
func (s *Store) Save(name string, req tradespace.Request, result *tradespace.SweepResult) (string, error) {
	if result == nil {
		return "", errors.New("storage: nil result")
	}
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, metadataOf(runID, name, result), req, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, req tradespace.Request, result *tradespace.SweepResult) error {
	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(runDir, requestFile), req); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(runDir, resultFile), result); err != nil {
		return err
	}
	return ExportCSV(filepath.Join(runDir, candidatesFile), result, false)
}

// List returns stored runs, newest first. Unreadable directories are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var meta RunMetadata
		if err := readJSONFile(filepath.Join(s.baseDir, entry.Name(), metadataFile), &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	var meta RunMetadata
	if err := s.read(runID, metadataFile, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadRequest(runID string) (*tradespace.Request, error) {
	var req tradespace.Request
	if err := s.read(runID, requestFile, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) LoadResult(runID string) (*tradespace.SweepResult, error) {
	var r tradespace.SweepResult
	if err := s.read(runID, resultFile, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CandidatesPath is the CSV table written by Save.
func (s *Store) CandidatesPath(runID string) (string, error) {
	if err := checkID(runID); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, runID, candidatesFile), nil
}

func (s *Store) read(runID, file string, v any) error {
	if err := checkID(runID); err != nil {
		return err
	}
	err := readJSONFile(filepath.Join(s.baseDir, runID, file), v)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
}

// run IDs are UUIDs; anything else never names a run directory
func checkID(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	return createFile(path, func(w io.Writer) error { return WriteJSON(w, v) })
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
