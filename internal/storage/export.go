package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ballpit/internal/sim"
)

type ExportBody struct {
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`
	Color    string     `json:"color"`
}

type ExportFrame struct {
	Step   uint64       `json:"step"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	Seed    int64              `json:"seed"`
	Dt      float64            `json:"dt"`
	Steps   int                `json:"steps"`
	Frames  []ExportFrame      `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, snaps []sim.Snapshot) error {
	data := ExportData{
		Seed:    meta.Seed,
		Dt:      meta.Dt,
		Steps:   meta.Steps,
		Frames:  make([]ExportFrame, len(snaps)),
		Metrics: meta.Metrics,
	}

	for i, s := range snaps {
		frame := ExportFrame{Step: s.Step, Time: s.Time, Bodies: make([]ExportBody, len(s.Bodies))}
		for j, b := range s.Bodies {
			frame.Bodies[j] = ExportBody{Position: b.Position, Radius: b.Radius, Color: b.Color.Hex()}
		}
		data.Frames[i] = frame
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
