package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/export"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/trajectory"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir     string
	now         func() time.Time
	writeFrames func(io.Writer, *trajectory.Trajectory) error
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now, writeFrames: export.CSV}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Config    *config.Config     `json:"config"`
	Frames    int                `json:"frames"`
	FrameDt   float64            `json:"frame_dt"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Stats     sim.Stats          `json:"stats"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and frames and returns its id.
func (s *Store) Save(out *experiment.Output) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	ts := s.now()
	base := fmt.Sprintf("%s_%s", slug(out.Config.Name), ts.Format("20060102-150405"))
	runID := base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, runID), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	meta := RunMetadata{
		ID:        runID,
		Name:      out.Config.Name,
		Timestamp: ts,
		Config:    out.Config,
		Frames:    out.Trajectory.Frames(),
		FrameDt:   out.Trajectory.FrameDt(),
		Elapsed:   out.Elapsed,
		Stats:     out.Stats,
		Metrics:   out.Metrics,
	}
	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	// A run without frames must not show up in List.
	if err := writeFile(filepath.Join(runDir, framesFile), func(f *os.File) error {
		return s.writeFrames(f, out.Trajectory)
	}); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	slices.SortStableFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if meta.Config == nil {
		return nil, fmt.Errorf("run %s: metadata has no config", runID)
	}
	return &meta, nil
}

// LoadTrajectory rebuilds the run's trajectory from its frames file.
func (s *Store) LoadTrajectory(runID string) (*trajectory.Trajectory, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	traj, err := export.ReadCSV(f, meta.Config.Masses(), meta.FrameDt)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return traj, meta, nil
}

// runDir rejects ids that would escape the store.
func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return "", fmt.Errorf("run %q: %w", runID, fs.ErrNotExist)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// slug keeps run ids to characters that are safe in a path.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	if s == "" {
		return "run"
	}
	return s
}
