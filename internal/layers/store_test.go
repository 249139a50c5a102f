package layers

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func writeLayer(t *testing.T, s *Store, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(s.layerDir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing layer: %v", err)
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)
	writeLayer(t, s, "river_basins.geojson", `{"type":"FeatureCollection","features":[]}`)
	writeLayer(t, s, "coastline.geojson", `{"type":"FeatureCollection","features":[]}`)
	writeLayer(t, s, "notes.txt", "ignored")

	layers, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("List returned %d layers, want 2", len(layers))
	}
	// Sorted by id.
	if layers[0].ID != "coastline" || layers[1].ID != "river_basins" {
		t.Errorf("order = %q, %q", layers[0].ID, layers[1].ID)
	}
	if layers[1].Name != "river basins" {
		t.Errorf("display name = %q, want underscores replaced", layers[1].Name)
	}
	if layers[0].Size == 0 {
		t.Error("size not populated")
	}
}

func TestStore_ListEmpty(t *testing.T) {
	s := newTestStore(t)
	layers, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(layers) != 0 {
		t.Errorf("List returned %d layers, want 0", len(layers))
	}
}

func TestStore_GetAndCache(t *testing.T) {
	s := newTestStore(t)
	content := `{"type":"FeatureCollection","features":[]}`
	writeLayer(t, s, "basins.geojson", content)

	raw, err := s.Get("basins")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != content {
		t.Errorf("Get returned %q", raw)
	}
	if s.CachedCount() != 1 {
		t.Errorf("CachedCount = %d, want 1", s.CachedCount())
	}

	// Cached copy survives file deletion.
	os.Remove(filepath.Join(s.layerDir, "basins.geojson"))
	raw, err = s.Get("basins")
	if err != nil {
		t.Fatalf("Get from cache: %v", err)
	}
	if string(raw) != content {
		t.Errorf("cached Get returned %q", raw)
	}
}

func TestStore_GetInvalidJSON(t *testing.T) {
	s := newTestStore(t)
	writeLayer(t, s, "broken.geojson", "{not json")

	if _, err := s.Get("broken"); err == nil {
		t.Error("Get should reject invalid JSON")
	}
	if s.CachedCount() != 0 {
		t.Error("invalid layer must not be cached")
	}
}

func TestStore_GetRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"", "../etc/passwd", "a/b", `a\b`, ".."} {
		if _, err := s.Get(id); err == nil {
			t.Errorf("Get(%q) should be rejected", id)
		}
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get("nope"); err == nil {
		t.Error("Get should fail for a missing layer")
	}
}
