// Package dashboard holds the dashboard draft state and its persistence
// adapter against the remote store.
package dashboard

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
)

// Mode is the editor interaction mode.
type Mode string

const (
	// ModeEdit enables drag/resize and the panel toolbar.
	ModeEdit Mode = "edit"
	// ModeView renders statically; layout events are ignored.
	ModeView Mode = "view"
)

// DefaultPanelTitle is the placeholder title of a newly added panel.
const DefaultPanelTitle = "Panel Title"

// PanelPlacement pairs a panel id with a grid rectangle, as emitted by the
// grid engine on drag/resize.
type PanelPlacement struct {
	ID      string         `json:"id"`
	GridPos models.GridPos `json:"gridPos"`
}

// Editor is the explicitly constructed state container for one dashboard
// draft. All mutation goes through its methods under a single mutex; there
// is no package-level instance.
type Editor struct {
	mu     sync.Mutex
	uid    string
	title  string
	draft  models.LayoutConfiguration
	mode   Mode
	lastID int64
}

// NewEditor creates an editor with an empty draft in edit mode.
func NewEditor() *Editor {
	e := &Editor{}
	e.resetLocked()
	return e
}

// Reset clears the draft entirely: title, panels, time range, options and
// version. The editor returns to edit mode.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Editor) resetLocked() {
	e.uid = ""
	e.title = ""
	e.mode = ModeEdit
	e.draft = models.LayoutConfiguration{
		Panels:    []models.Panel{},
		Refresh:   0,
		TimeRange: models.TimeRange{From: "now-6h", To: "now"},
		TimeLabel: "Last 6 hours",
		Version:   0,
	}
}

// Mode returns the current interaction mode.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode toggles between edit and view. Unknown values are ignored.
func (e *Editor) SetMode(m Mode) {
	if m != ModeEdit && m != ModeView {
		return
	}
	e.mu.Lock()
	e.mode = m
	e.mu.Unlock()
}

// UID returns the stored identity of the draft, empty for a new dashboard.
func (e *Editor) UID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uid
}

// Title returns the draft title.
func (e *Editor) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// SetTitle updates the draft title.
func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	e.title = title
	e.mu.Unlock()
}

// AddPanel appends a new empty panel placed by the grid allocator and
// returns a copy of it. Panel IDs are timestamp-based and never reused
// after deletion.
func (e *Editor) AddPanel(w, h int) models.Panel {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := make([]models.GridPos, len(e.draft.Panels))
	for i, p := range e.draft.Panels {
		existing[i] = p.GridPos
	}

	panel := models.Panel{
		ID:      e.nextIDLocked(),
		Title:   DefaultPanelTitle,
		Type:    models.PanelTypeLineChart,
		GridPos: layout.Allocate(existing, layout.GridColumns, w, h),
		Targets: []models.Target{},
	}
	e.draft.Panels = append(e.draft.Panels, panel)
	return panel
}

// nextIDLocked returns a millisecond-timestamp id, bumped past the previous
// one so rapid additions stay unique.
func (e *Editor) nextIDLocked() string {
	id := time.Now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return strconv.FormatInt(id, 10)
}

// SavePanel applies a configuration dialog result: the panel replaces an
// existing one with the same id, or is appended when the id is unknown.
// Targets are replaced atomically, not merged.
func (e *Editor) SavePanel(panel models.Panel) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.draft.Panels {
		if e.draft.Panels[i].ID == panel.ID {
			e.draft.Panels[i] = panel
			return
		}
	}
	e.draft.Panels = append(e.draft.Panels, panel)
}

// RemovePanel deletes a panel from the draft. There is no soft delete; the
// id is simply never handed out again.
func (e *Editor) RemovePanel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.draft.Panels {
		if e.draft.Panels[i].ID == id {
			e.draft.Panels = append(e.draft.Panels[:i], e.draft.Panels[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyGridLayout applies drag/resize placements to the draft. Placements
// arriving in view mode are dropped: the render layer disables dragging
// there, but some grid engines still emit spurious events, so the guard
// exists here independently. Placements for unknown panel ids are ignored.
// Overlap is not re-validated on manual moves.
func (e *Editor) ApplyGridLayout(placements []PanelPlacement) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeEdit {
		return
	}
	for _, pl := range placements {
		if p := e.draft.PanelByID(pl.ID); p != nil {
			p.GridPos = pl.GridPos
		}
	}
}

// Touch rotates a panel's refresh token, forcing its chart binding to
// re-fetch even though nothing else changed. Returns false for an unknown
// panel.
func (e *Editor) Touch(panelID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.draft.PanelByID(panelID)
	if p == nil {
		return false
	}
	p.RefreshToken = fmt.Sprintf("%d", time.Now().UnixNano())
	return true
}

// SetTimeRange updates the dashboard window and its display label.
func (e *Editor) SetTimeRange(tr models.TimeRange, label string) {
	e.mu.Lock()
	e.draft.TimeRange = tr
	e.draft.TimeLabel = label
	e.mu.Unlock()
}

// SetRefresh updates the auto-refresh interval in seconds; 0 disables it.
func (e *Editor) SetRefresh(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	e.mu.Lock()
	e.draft.Refresh = seconds
	e.mu.Unlock()
}

// SetOptions replaces the forecast/anomaly options.
func (e *Editor) SetOptions(opts models.DashboardOptions) {
	e.mu.Lock()
	e.draft.Options = opts
	e.mu.Unlock()
}

// Snapshot returns a deep copy of the current draft for reading or
// serialization.
func (e *Editor) Snapshot() models.LayoutConfiguration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() models.LayoutConfiguration {
	out := e.draft
	out.Panels = make([]models.Panel, len(e.draft.Panels))
	copy(out.Panels, e.draft.Panels)
	for i := range out.Panels {
		targets := make([]models.Target, len(e.draft.Panels[i].Targets))
		copy(targets, e.draft.Panels[i].Targets)
		out.Panels[i].Targets = targets
	}
	return out
}

// Panel returns a copy of one panel by id.
func (e *Editor) Panel(id string) (models.Panel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.draft.PanelByID(id)
	if p == nil {
		return models.Panel{}, false
	}
	out := *p
	out.Targets = make([]models.Target, len(p.Targets))
	copy(out.Targets, p.Targets)
	return out, true
}
