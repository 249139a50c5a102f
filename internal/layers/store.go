// Package layers serves the GeoJSON map overlays (basins, coastlines,
// protected areas) that the map view draws under the station markers.
package layers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LayerInfo describes one available GeoJSON layer.
type LayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Store lists and loads GeoJSON layers from the data directory. Raw layer
// bytes are cached opportunistically in memory after the first read; layers
// change only on deployment, so the cache is never invalidated during a
// process lifetime.
type Store struct {
	mu       sync.RWMutex
	layerDir string
	cache    map[string][]byte
}

// NewStore creates a layer store rooted at layerDir, creating it if needed.
func NewStore(layerDir string) (*Store, error) {
	if err := os.MkdirAll(layerDir, 0755); err != nil {
		return nil, fmt.Errorf("creating layer directory: %w", err)
	}
	return &Store{
		layerDir: layerDir,
		cache:    make(map[string][]byte),
	}, nil
}

// List returns the available layers sorted by id.
func (s *Store) List() ([]LayerInfo, error) {
	entries, err := os.ReadDir(s.layerDir)
	if err != nil {
		return nil, fmt.Errorf("listing layers: %w", err)
	}

	var layers []LayerInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".geojson") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".geojson")
		layers = append(layers, LayerInfo{
			ID:   id,
			Name: strings.ReplaceAll(id, "_", " "),
			Size: info.Size(),
		})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].ID < layers[j].ID })
	return layers, nil
}

// Get returns the raw GeoJSON bytes of a layer, from cache when available.
// The id is restricted to a bare file name to keep reads inside layerDir.
func (s *Store) Get(id string) ([]byte, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("invalid layer id: %q", id)
	}

	s.mu.RLock()
	cached, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(s.layerDir, id+".geojson")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layer %s: %w", id, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("layer %s is not valid JSON", id)
	}

	s.mu.Lock()
	s.cache[id] = raw
	s.mu.Unlock()
	return raw, nil
}

// CachedCount returns how many layers are held in memory. Used by the
// health endpoint.
func (s *Store) CachedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
