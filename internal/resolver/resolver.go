// Package resolver builds the series descriptors of a panel from the
// user's station and parameter selection.
package resolver

import (
	"context"
	"fmt"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
)

// Resolver resolves selectable parameters and constructs panel targets.
type Resolver struct {
	api backend.API
}

// New creates a resolver over the remote API.
func New(api backend.API) *Resolver {
	return &Resolver{api: api}
}

// AvailableParameters fetches the parameters measured at each selected
// station and merges them, deduplicating by parameter ID: a parameter shared
// by several stations appears exactly once. Order follows first appearance
// across the station list.
func (r *Resolver) AvailableParameters(ctx context.Context, token string, stationIDs []int64) ([]models.Parameter, error) {
	seen := make(map[int64]bool)
	var merged []models.Parameter

	for _, sid := range stationIDs {
		params, err := r.api.ParametersByTarget(ctx, token, sid)
		if err != nil {
			return nil, fmt.Errorf("resolving parameters for station %d: %w", sid, err)
		}
		for _, p := range params {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}
	return merged, nil
}

// BuildTargets constructs the cross product of the selected stations and
// parameters as color-assigned series descriptors. Membership is not
// re-checked here: the selectable parameter list already restricted the
// choice in the UI, and a pairing that slipped past it is persisted as-is.
// Colors come from the override map when present, otherwise from the
// default palette indexed by creation order.
func BuildTargets(stations []models.Station, params []models.Parameter, colorMap map[string]string) []models.Target {
	targets := make([]models.Target, 0, len(stations)*len(params))

	for si, station := range stations {
		for pi, param := range params {
			key := layout.ColorKey(station.ID, param.ID)
			targets = append(targets, models.Target{
				RefID:       fmt.Sprintf("R%d_%d", station.ID, param.ID),
				TargetType:  "station",
				TargetID:    station.ID,
				MetricID:    param.ID,
				DisplayName: fmt.Sprintf("%s - %s", param.Name, station.Name),
				Color:       layout.ColorFor(si, pi, colorMap, key),
			})
		}
	}
	return targets
}
