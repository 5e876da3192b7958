package site

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest is the build.json summary of a generation pass.
type Manifest struct {
	BuildID     string          `json:"build_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Projects    []string        `json:"projects"`
	Pages       []string        `json:"pages"`
	Assets      []ManifestAsset `json:"assets"`
}

// ManifestAsset is one copied static file.
type ManifestAsset struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	Size int64  `json:"size"`
	Hash string `json:"sha256"`
}

// NewManifest summarizes b.
func NewManifest(b *Build) Manifest {
	m := Manifest{
		BuildID:     b.ID,
		GeneratedAt: b.GeneratedAt,
		Projects:    make([]string, 0, b.Catalog.Len()),
		Pages:       append([]string{}, b.Pages...),
		Assets:      make([]ManifestAsset, 0, len(b.Assets)),
	}
	if b.Catalog != nil {
		for _, p := range b.Catalog.Projects {
			m.Projects = append(m.Projects, p.Slug)
		}
	}
	for _, a := range b.Assets {
		m.Assets = append(m.Assets, ManifestAsset{Path: a.RelPath, Kind: a.Kind, Size: a.Size, Hash: a.ContentHash})
	}
	return m
}

// WriteManifest writes the manifest of b as JSON to the given path.
func WriteManifest(b *Build, outputPath string) error {
	data, err := json.MarshalIndent(NewManifest(b), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(data, '\n'), 0o644)
}
