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

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{"step", "time", "body", "x", "y", "z", "radius", "color"}

// Save writes meta and the recorded snapshots under a fresh run directory and
// returns the run ID. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, snaps []sim.Snapshot) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	meta.Timestamp = time.Now()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "snapshots.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, snap := range snaps {
		step := strconv.FormatUint(snap.Step, 10)
		t := strconv.FormatFloat(snap.Time, 'f', 6, 64)
		for i, b := range snap.Bodies {
			row := []string{
				step,
				t,
				strconv.Itoa(i),
				strconv.FormatFloat(b.Position[0], 'f', 6, 64),
				strconv.FormatFloat(b.Position[1], 'f', 6, 64),
				strconv.FormatFloat(b.Position[2], 'f', 6, 64),
				strconv.FormatFloat(b.Radius, 'f', 6, 64),
				b.Color.Hex(),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots rebuilds the recorded snapshots of a run. The volume is not
// stored and is left zero.
func (s *Store) LoadSnapshots(runID string) ([]sim.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s snapshots: %w", runID, err)
	}
	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	snaps := make([]sim.Snapshot, 0)
	for _, record := range records[1:] {
		step, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		view, err := parseBody(record)
		if err != nil {
			continue
		}

		if n := len(snaps); n == 0 || snaps[n-1].Step != step {
			t, _ := strconv.ParseFloat(record[1], 64)
			snaps = append(snaps, sim.Snapshot{Step: step, Time: t})
		}
		last := &snaps[len(snaps)-1]
		last.Bodies = append(last.Bodies, view)
	}
	return snaps, nil
}

func parseBody(record []string) (sim.BodyView, error) {
	var vals [4]float64
	for i := range vals {
		v, err := strconv.ParseFloat(record[3+i], 64)
		if err != nil {
			return sim.BodyView{}, err
		}
		vals[i] = v
	}
	col, err := colorful.Hex(record[7])
	if err != nil {
		return sim.BodyView{}, err
	}
	return sim.BodyView{
		Position: mgl64.Vec3{vals[0], vals[1], vals[2]},
		Radius:   vals[3],
		Color:    col,
	}, nil
}
