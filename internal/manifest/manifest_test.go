package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, sourceID string, clips []Clip) {
	t.Helper()
	dir := filepath.Join(root, sourceID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(clips)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "vid1", []Clip{
		{ClipIndex: 3, Title: "Third", FileName: "clip_03.mp4"},
		{ClipIndex: 1, Title: "First", FileName: "clip_01.mp4"},
		{ClipIndex: 2, Title: "Second", FileName: "clip_02.mp4"},
	})

	store := NewStore(root)
	clips, err := store.Load("vid1")
	require.NoError(t, err)
	require.Len(t, clips, 3)

	// Sorted by clip index regardless of file order
	assert.Equal(t, "First", clips[0].Title)
	assert.Equal(t, "Second", clips[1].Title)
	assert.Equal(t, "Third", clips[2].Title)
}

func TestLoadMissingManifest(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("missing")
	assert.ErrorIs(t, err, ErrManifestNotFound)
}

func TestClip(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "vid1", []Clip{
		{ClipIndex: 1, Title: "First", FileName: "clip_01.mp4"},
	})

	store := NewStore(root)
	clip, err := store.Clip("vid1", 1)
	require.NoError(t, err)
	assert.Equal(t, "First", clip.Title)

	_, err = store.Clip("vid1", 9)
	assert.ErrorIs(t, err, ErrClipNotFound)
}

func TestClipPath(t *testing.T) {
	store := NewStore("out")
	clip := &Clip{ClipIndex: 1, FileName: "clip_01.mp4"}
	assert.Equal(t, filepath.Join("out", "vid1", "clips", "clip_01.mp4"), store.ClipPath("vid1", clip))
}
