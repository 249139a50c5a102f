package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
)

// Adapter moves the in-memory draft to and from the remote dashboard store.
// Any non-success response surfaces the remote message verbatim; there is
// no retry and no partial-save recovery.
type Adapter struct {
	api backend.API
}

// NewAdapter creates a persistence adapter over the remote API.
func NewAdapter(api backend.API) *Adapter {
	return &Adapter{api: api}
}

// Save serializes the editor draft and pushes it to the remote store. With
// a uid this is an update and the outgoing version is the draft version
// plus one; without, it is a create with version 1.
//
// On a successful create the draft is cleared entirely (the caller
// navigates back to the list view); on a successful update only the version
// counter advances and the panels stay in memory.
func (a *Adapter) Save(ctx context.Context, token string, ed *Editor, uid, title string, intervalSeconds int, tr models.TimeRange, ownerID int64) (string, error) {
	draft := ed.Snapshot()
	draft.Refresh = intervalSeconds
	draft.TimeRange = tr

	version := 1
	if uid != "" {
		version = draft.Version + 1
	}

	payload := &backend.SaveDashboardRequest{
		Dashboard: backend.SaveDashboardPayload{
			Name:                title,
			LayoutConfiguration: buildPersistedLayout(&draft),
			CreatedBy:           ownerID,
			Version:             version,
			Status:              "active",
		},
	}

	if uid == "" {
		doc, err := a.api.CreateDashboard(ctx, token, payload)
		if err != nil {
			return "", err
		}
		ed.Reset()
		return doc.UID, nil
	}

	if _, err := a.api.UpdateDashboard(ctx, token, uid, payload); err != nil {
		return "", err
	}
	ed.advanceVersion(version)
	return uid, nil
}

// advanceVersion records the version accepted by the store. The stored
// version is never read back and compared first; two sessions saving the
// same dashboard overwrite each other silently.
func (e *Editor) advanceVersion(version int) {
	e.mu.Lock()
	e.draft.Version = version
	e.mu.Unlock()
}

// Load fetches a dashboard by uid, clears the current draft and replaces it
// with the stored configuration. The stored refresh string parses back to
// whole seconds (default 300 when malformed), and the dashboard-level
// refresh and time range are copied down onto every panel: the persisted
// form keeps the schedule only at dashboard level, and the renderer expects
// it on each panel.
func (a *Adapter) Load(ctx context.Context, token string, ed *Editor, uid string, ownerID int64) error {
	doc, err := a.api.GetDashboard(ctx, token, uid, ownerID)
	if err != nil {
		return err
	}

	ed.Reset()

	refresh := layout.ParseRefresh(doc.LayoutConfiguration.Refresh)
	tr := models.TimeRange{
		From: doc.LayoutConfiguration.Time.From,
		To:   doc.LayoutConfiguration.Time.To,
	}

	panels := make([]models.Panel, 0, len(doc.LayoutConfiguration.Panels))
	for i, pp := range doc.LayoutConfiguration.Panels {
		panels = append(panels, models.Panel{
			ID:        panelIDString(pp.ID, i),
			Title:     pp.Title,
			Type:      models.PanelType(pp.Type),
			GridPos:   pp.GridPos,
			Targets:   targetsOrEmpty(pp.Targets),
			Interval:  refresh,
			TimeRange: tr,
		})
	}

	draft := models.LayoutConfiguration{
		Panels:    panels,
		Refresh:   refresh,
		TimeRange: tr,
		Version:   doc.Version,
	}
	if doc.LayoutConfiguration.Options != nil {
		draft.Options = *doc.LayoutConfiguration.Options
	}

	ed.mu.Lock()
	ed.uid = doc.UID
	if ed.uid == "" {
		ed.uid = uid
	}
	ed.title = doc.Name
	ed.draft = draft
	ed.mu.Unlock()
	return nil
}

// Delete removes a stored dashboard.
func (a *Adapter) Delete(ctx context.Context, token, uid string) error {
	return a.api.DeleteDashboard(ctx, token, uid)
}

// List returns the dashboards owned by a user.
func (a *Adapter) List(ctx context.Context, token string, ownerID int64) ([]models.DashboardMeta, error) {
	return a.api.ListDashboards(ctx, token, ownerID)
}

// buildPersistedLayout maps the draft to the stored JSON shape: refresh as
// "<n>s", panel ids as numbers (synthesized from position when the id is
// not numeric).
func buildPersistedLayout(draft *models.LayoutConfiguration) backend.PersistedLayout {
	panels := make([]backend.PersistedPanel, 0, len(draft.Panels))
	for i, p := range draft.Panels {
		panels = append(panels, backend.PersistedPanel{
			ID:      panelIDNumber(p.ID, i),
			Title:   p.Title,
			Type:    string(p.Type),
			GridPos: p.GridPos,
			Targets: targetsOrEmpty(p.Targets),
		})
	}
	opts := draft.Options
	return backend.PersistedLayout{
		Time: backend.PersistedTimeRange{
			From: draft.TimeRange.From,
			To:   draft.TimeRange.To,
		},
		Refresh: layout.FormatRefresh(draft.Refresh),
		Panels:  panels,
		Options: &opts,
	}
}

// panelIDNumber renders a panel id as a JSON number, falling back to a
// synthetic id from the panel's position for non-numeric ids.
func panelIDNumber(id string, index int) json.RawMessage {
	if _, err := strconv.ParseInt(id, 10, 64); err == nil {
		return json.RawMessage(id)
	}
	return json.RawMessage(strconv.Itoa(index + 1))
}

// panelIDString reads a stored panel id that may be a number or a string.
// Unreadable ids get a synthetic position-based one.
func panelIDString(raw json.RawMessage, index int) string {
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString
	}
	return fmt.Sprintf("panel-%d", index+1)
}

func targetsOrEmpty(ts []models.Target) []models.Target {
	if ts == nil {
		return []models.Target{}
	}
	return ts
}
