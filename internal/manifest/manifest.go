// Package manifest reads the clip manifests produced by the clip
// generation pipeline. The manifest is the authoritative record of which
// clips exist for a source video and where their media files live.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Manifest layout under the output root:
//
//	<root>/<source_id>/manifest.json
//	<root>/<source_id>/clips/<file_name>
const (
	manifestFileName = "manifest.json"
	clipsDirName     = "clips"
)

// Errors returned by manifest lookups
var (
	// ErrManifestNotFound indicates no manifest exists for the source
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrClipNotFound indicates the manifest has no entry for the clip index
	ErrClipNotFound = errors.New("clip not found in manifest")
)

// Clip is one generated clip record
type Clip struct {
	ClipIndex   int      `json:"clip_index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FileName    string   `json:"file_name"`
	Duration    float64  `json:"duration"`
	Tags        []string `json:"tags,omitempty"`
}

// Store resolves clip manifests under a fixed output root
type Store struct {
	root string
}

// NewStore creates a manifest store rooted at root
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root directory
func (s *Store) Root() string {
	return s.root
}

// Load reads the manifest for a source video, ordered by clip index
func (s *Store) Load(sourceID string) ([]Clip, error) {
	path := filepath.Join(s.root, sourceID, manifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var clips []Clip
	if err := json.Unmarshal(data, &clips); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].ClipIndex < clips[j].ClipIndex
	})
	return clips, nil
}

// Clip returns the manifest entry for one clip of a source video
func (s *Store) Clip(sourceID string, clipIndex int) (*Clip, error) {
	clips, err := s.Load(sourceID)
	if err != nil {
		return nil, err
	}
	for i := range clips {
		if clips[i].ClipIndex == clipIndex {
			return &clips[i], nil
		}
	}
	return nil, fmt.Errorf("%w: source %s clip %d", ErrClipNotFound, sourceID, clipIndex)
}

// ClipPath returns the on-disk media path for a clip record
func (s *Store) ClipPath(sourceID string, clip *Clip) string {
	return filepath.Join(s.root, sourceID, clipsDirName, clip.FileName)
}
