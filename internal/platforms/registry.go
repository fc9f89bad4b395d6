package platforms

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps destination names to adapter instances. It is built once
// at process start and passed explicitly to the scheduler and dispatcher;
// there is no ambient global lookup table.
type Registry struct {
	adapters map[string]Platform
	names    []string
}

// NewRegistry builds a registry from the given adapters. Duplicate names
// (case-insensitive) are rejected.
func NewRegistry(adapters ...Platform) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Platform, len(adapters))}
	for _, adapter := range adapters {
		key := strings.ToLower(adapter.Name())
		if _, exists := r.adapters[key]; exists {
			return nil, fmt.Errorf("duplicate destination name: %s", key)
		}
		r.adapters[key] = adapter
		r.names = append(r.names, key)
	}
	return r, nil
}

// Resolve returns the adapter registered under name, case-insensitive.
// An unknown name yields an error listing the known destinations.
func (r *Registry) Resolve(name string) (Platform, error) {
	adapter, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown destination %q (available: %s)", name, strings.Join(r.names, ", "))
	}
	return adapter, nil
}

// AllNames returns every registered destination name in registration
// order. Callers that do not name specific destinations use this as the
// implicit default set.
func (r *Registry) AllNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// All returns every registered adapter in registration order
func (r *Registry) All() []Platform {
	adapters := make([]Platform, 0, len(r.names))
	for _, name := range r.names {
		adapters = append(adapters, r.adapters[name])
	}
	return adapters
}

// NewDefaultRegistry wires the full adapter set, reading credential files
// from credentialsDir.
func NewDefaultRegistry(credentialsDir string) (*Registry, error) {
	in := func(name string) string { return filepath.Join(credentialsDir, name) }
	return NewRegistry(
		NewYouTube(in("client_secret.json"), in("youtube_token.json")),
		NewInstagram(in("instagram_config.json")),
		NewTikTok(in("tiktok_config.json")),
		NewTwitter(in("twitter_config.json")),
		NewLinkedIn(in("linkedin_config.json")),
		NewFacebook(in("facebook_config.json")),
	)
}
