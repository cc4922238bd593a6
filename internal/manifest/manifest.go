package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// StatusSuccess marks a manifest written for a complete site.
const StatusSuccess = "success"

// SiteManifest is a record of one generation run: what went in and which pages came out.
type SiteManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Pages     []Page    `json:"pages"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures the inputs to a generation run.
type Inputs struct {
	Root         string   `json:"root"`
	BaseURL      string   `json:"base_url"`
	SourceCommit string   `json:"source_commit,omitempty"`
	Packages     []string `json:"packages"`
}

// Page is one written output page.
type Page struct {
	Path        string `json:"path"` // relative to the output directory
	Kind        string `json:"kind"`
	Source      string `json:"source,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// New returns a manifest with a fresh ID stamped at now.
func New(now time.Time, in Inputs) *SiteManifest {
	return &SiteManifest{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Inputs:    in,
	}
}

// AddPage records a written page.
func (m *SiteManifest) AddPage(p Page) {
	m.Pages = append(m.Pages, p)
}

// ToJSON serializes the manifest to JSON.
func (m *SiteManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and page fingerprints.
// Two runs over identical sources hash equal regardless of ID, timestamp or page order.
func (m *SiteManifest) Hash() (string, error) {
	pages := slices.Clone(m.Pages)
	slices.SortFunc(pages, func(a, b Page) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})

	hashInput := struct {
		Inputs Inputs `json:"inputs"`
		Pages  []Page `json:"pages"`
	}{
		Inputs: m.Inputs,
		Pages:  pages,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
