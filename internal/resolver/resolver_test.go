package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
	"github.com/waterwatch/dashboard/internal/testutil"
)

func TestAvailableParameters_DeduplicatesAcrossStations(t *testing.T) {
	mock := testutil.NewMockBackend()
	mock.ParamsByStation[1] = []models.Parameter{
		{ID: 10, Name: "pH"},
		{ID: 11, Name: "Turbidity"},
	}
	mock.ParamsByStation[2] = []models.Parameter{
		{ID: 11, Name: "Turbidity"},
		{ID: 12, Name: "Dissolved Oxygen"},
	}

	r := New(mock)
	params, err := r.AvailableParameters(context.Background(), "tok", []int64{1, 2})
	require.NoError(t, err)

	require.Len(t, params, 3)
	assert.Equal(t, int64(10), params[0].ID)
	assert.Equal(t, int64(11), params[1].ID)
	assert.Equal(t, int64(12), params[2].ID)
}

func TestAvailableParameters_OrderFollowsStationList(t *testing.T) {
	mock := testutil.NewMockBackend()
	mock.ParamsByStation[5] = []models.Parameter{{ID: 30, Name: "Nitrate"}}
	mock.ParamsByStation[3] = []models.Parameter{{ID: 20, Name: "pH"}}

	r := New(mock)
	params, err := r.AvailableParameters(context.Background(), "tok", []int64{5, 3})
	require.NoError(t, err)

	require.Len(t, params, 2)
	assert.Equal(t, "Nitrate", params[0].Name)
	assert.Equal(t, "pH", params[1].Name)
}

func TestAvailableParameters_EmptySelection(t *testing.T) {
	r := New(testutil.NewMockBackend())
	params, err := r.AvailableParameters(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestAvailableParameters_PropagatesError(t *testing.T) {
	mock := testutil.NewMockBackend()
	mock.Err = errors.New("backend down")

	r := New(mock)
	_, err := r.AvailableParameters(context.Background(), "tok", []int64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station 1")
}

func TestBuildTargets_CrossProduct(t *testing.T) {
	stations := []models.Station{
		{ID: 7, Name: "Station 7"},
		{ID: 8, Name: "Station 8"},
	}
	params := []models.Parameter{
		{ID: 3, Name: "pH"},
		{ID: 4, Name: "Turbidity"},
	}

	targets := BuildTargets(stations, params, nil)
	require.Len(t, targets, 4)

	first := targets[0]
	assert.Equal(t, "R7_3", first.RefID)
	assert.Equal(t, "station", first.TargetType)
	assert.Equal(t, int64(7), first.TargetID)
	assert.Equal(t, int64(3), first.MetricID)
	assert.Equal(t, "pH - Station 7", first.DisplayName)
	assert.Equal(t, layout.DefaultColors[0], first.Color)

	// Station-major order: all of station 7's params before station 8's.
	assert.Equal(t, "R7_4", targets[1].RefID)
	assert.Equal(t, "R8_3", targets[2].RefID)
	assert.Equal(t, "R8_4", targets[3].RefID)
}

func TestBuildTargets_ColorOverride(t *testing.T) {
	stations := []models.Station{{ID: 7, Name: "Station 7"}}
	params := []models.Parameter{{ID: 3, Name: "pH"}}
	colorMap := map[string]string{layout.ColorKey(7, 3): "#ff5733"}

	targets := BuildTargets(stations, params, colorMap)
	require.Len(t, targets, 1)
	assert.Equal(t, "#ff5733", targets[0].Color)
}

func TestBuildTargets_DeterministicColors(t *testing.T) {
	stations := []models.Station{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	params := []models.Parameter{{ID: 10, Name: "pH"}, {ID: 11, Name: "DO"}}

	first := BuildTargets(stations, params, nil)
	second := BuildTargets(stations, params, nil)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Color, second[i].Color, "target %d", i)
	}
}

func TestBuildTargets_EmptyInputs(t *testing.T) {
	targets := BuildTargets(nil, []models.Parameter{{ID: 1}}, nil)
	assert.Empty(t, targets)
	targets = BuildTargets([]models.Station{{ID: 1}}, nil, nil)
	assert.Empty(t, targets)
}
