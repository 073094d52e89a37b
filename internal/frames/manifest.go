package frames

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Image string  `json:"image"`
}

// Manifest describes a rendered sequence.
type Manifest struct {
	Scene  string          `json:"scene"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    float64         `json:"fps"`
	Format string          `json:"format"`
	Frames []ManifestEntry `json:"frames"`
	Failed []int           `json:"failed,omitempty"`
}

// Add records the results in m, successful frames in Frames and the rest in Failed.
func (m *Manifest) Add(results []Result) {
	for _, r := range results {
		if !r.Success {
			m.Failed = append(m.Failed, r.Index)
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{Index: r.Index, Time: r.Time, Image: r.Path})
	}
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
