package dashboard

import (
	"testing"

	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
)

func TestNewEditor_Defaults(t *testing.T) {
	e := NewEditor()

	if e.Mode() != ModeEdit {
		t.Errorf("mode = %q, want edit", e.Mode())
	}
	if e.UID() != "" {
		t.Errorf("uid = %q, want empty", e.UID())
	}

	draft := e.Snapshot()
	if len(draft.Panels) != 0 {
		t.Errorf("new draft has %d panels", len(draft.Panels))
	}
	if draft.TimeRange.From != "now-6h" || draft.TimeRange.To != "now" {
		t.Errorf("default time range = %+v", draft.TimeRange)
	}
	if draft.TimeLabel != "Last 6 hours" {
		t.Errorf("default time label = %q", draft.TimeLabel)
	}
	if draft.Version != 0 {
		t.Errorf("default version = %d", draft.Version)
	}
}

func TestEditor_AddPanel(t *testing.T) {
	e := NewEditor()

	first := e.AddPanel(0, 0)
	if first.Title != DefaultPanelTitle {
		t.Errorf("title = %q, want %q", first.Title, DefaultPanelTitle)
	}
	if first.Type != models.PanelTypeLineChart {
		t.Errorf("type = %q, want line_chart", first.Type)
	}
	want := models.GridPos{X: 0, Y: 0, W: layout.DefaultPanelWidth, H: layout.DefaultPanelHeight}
	if first.GridPos != want {
		t.Errorf("gridPos = %+v, want %+v", first.GridPos, want)
	}
	if first.Targets == nil || len(first.Targets) != 0 {
		t.Errorf("targets = %v, want empty slice", first.Targets)
	}

	second := e.AddPanel(0, 0)
	if second.ID == first.ID {
		t.Error("consecutive panels share an id")
	}
	if second.GridPos.Overlaps(first.GridPos) {
		t.Errorf("second panel %+v overlaps first %+v", second.GridPos, first.GridPos)
	}
}

func TestEditor_PanelIDsNeverReused(t *testing.T) {
	e := NewEditor()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p := e.AddPanel(0, 0)
		if seen[p.ID] {
			t.Fatalf("id %q handed out twice", p.ID)
		}
		seen[p.ID] = true
		if !e.RemovePanel(p.ID) {
			t.Fatalf("RemovePanel(%q) = false", p.ID)
		}
	}
}

func TestEditor_SavePanel(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)

	p.Title = "pH Overview"
	p.Targets = []models.Target{{RefID: "R7_3", TargetID: 7, MetricID: 3}}
	e.SavePanel(p)

	got, ok := e.Panel(p.ID)
	if !ok {
		t.Fatal("saved panel not found")
	}
	if got.Title != "pH Overview" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Targets) != 1 || got.Targets[0].RefID != "R7_3" {
		t.Errorf("targets = %+v", got.Targets)
	}

	// Unknown id appends rather than erroring.
	e.SavePanel(models.Panel{ID: "stray", Title: "Stray"})
	if len(e.Snapshot().Panels) != 2 {
		t.Errorf("panel count = %d, want 2", len(e.Snapshot().Panels))
	}
}

func TestEditor_SavePanelReplacesTargets(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)
	p.Targets = []models.Target{{RefID: "A"}, {RefID: "B"}}
	e.SavePanel(p)

	p.Targets = []models.Target{{RefID: "C"}}
	e.SavePanel(p)

	got, _ := e.Panel(p.ID)
	if len(got.Targets) != 1 || got.Targets[0].RefID != "C" {
		t.Errorf("targets = %+v, want replacement not merge", got.Targets)
	}
}

func TestEditor_RemovePanel(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)

	if !e.RemovePanel(p.ID) {
		t.Error("RemovePanel should report success for a known id")
	}
	if e.RemovePanel(p.ID) {
		t.Error("RemovePanel should report failure for a removed id")
	}
	if _, ok := e.Panel(p.ID); ok {
		t.Error("removed panel still retrievable")
	}
}

func TestEditor_ApplyGridLayout(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)

	moved := models.GridPos{X: 6, Y: 4, W: 6, H: 4}
	e.ApplyGridLayout([]PanelPlacement{{ID: p.ID, GridPos: moved}})

	got, _ := e.Panel(p.ID)
	if got.GridPos != moved {
		t.Errorf("gridPos = %+v, want %+v", got.GridPos, moved)
	}
}

func TestEditor_ApplyGridLayoutIgnoredInViewMode(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)
	original := p.GridPos

	e.SetMode(ModeView)
	e.ApplyGridLayout([]PanelPlacement{{ID: p.ID, GridPos: models.GridPos{X: 6, Y: 6, W: 3, H: 3}}})

	got, _ := e.Panel(p.ID)
	if got.GridPos != original {
		t.Errorf("view-mode placement applied: %+v", got.GridPos)
	}
}

func TestEditor_ApplyGridLayoutUnknownID(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)

	e.ApplyGridLayout([]PanelPlacement{{ID: "nope", GridPos: models.GridPos{X: 1, Y: 1, W: 1, H: 1}}})

	got, _ := e.Panel(p.ID)
	if got.GridPos != p.GridPos {
		t.Errorf("unrelated panel moved: %+v", got.GridPos)
	}
}

func TestEditor_SetMode(t *testing.T) {
	e := NewEditor()
	e.SetMode(ModeView)
	if e.Mode() != ModeView {
		t.Errorf("mode = %q, want view", e.Mode())
	}
	e.SetMode("bogus")
	if e.Mode() != ModeView {
		t.Errorf("unknown mode applied: %q", e.Mode())
	}
}

func TestEditor_Touch(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)

	if !e.Touch(p.ID) {
		t.Error("Touch should succeed for a known panel")
	}
	got, _ := e.Panel(p.ID)
	if got.RefreshToken == "" {
		t.Error("refresh token not rotated")
	}
	if e.Touch("nope") {
		t.Error("Touch should fail for an unknown panel")
	}
}

func TestEditor_Settings(t *testing.T) {
	e := NewEditor()

	e.SetTimeRange(models.TimeRange{From: "now-24h", To: "now"}, "Last 24 hours")
	e.SetRefresh(60)
	e.SetOptions(models.DashboardOptions{
		Anomaly: models.AnomalyOptions{Enabled: true, LocalErrorThreshold: 25},
	})

	draft := e.Snapshot()
	if draft.TimeRange.From != "now-24h" || draft.TimeLabel != "Last 24 hours" {
		t.Errorf("time range = %+v label %q", draft.TimeRange, draft.TimeLabel)
	}
	if draft.Refresh != 60 {
		t.Errorf("refresh = %d", draft.Refresh)
	}
	if !draft.Options.Anomaly.Enabled || draft.Options.Anomaly.LocalErrorThreshold != 25 {
		t.Errorf("options = %+v", draft.Options)
	}

	e.SetRefresh(-5)
	if e.Snapshot().Refresh != 0 {
		t.Errorf("negative refresh should clamp to 0, got %d", e.Snapshot().Refresh)
	}
}

func TestEditor_SnapshotIsDeepCopy(t *testing.T) {
	e := NewEditor()
	p := e.AddPanel(0, 0)
	p.Targets = []models.Target{{RefID: "A"}}
	e.SavePanel(p)

	snap := e.Snapshot()
	snap.Panels[0].Title = "mutated"
	snap.Panels[0].Targets[0].RefID = "mutated"

	got, _ := e.Panel(p.ID)
	if got.Title == "mutated" || got.Targets[0].RefID == "mutated" {
		t.Error("snapshot shares memory with the draft")
	}
}

func TestEditor_Reset(t *testing.T) {
	e := NewEditor()
	e.AddPanel(0, 0)
	e.SetTitle("My Dashboard")
	e.SetMode(ModeView)

	e.Reset()

	if e.Title() != "" || e.UID() != "" {
		t.Error("identity not cleared")
	}
	if e.Mode() != ModeEdit {
		t.Errorf("mode = %q, want edit", e.Mode())
	}
	if len(e.Snapshot().Panels) != 0 {
		t.Error("panels not cleared")
	}
}
