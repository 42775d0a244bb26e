package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dispatcherhub/internal/domain"
)

func TestRoute_LatLngs_SwapsGeoJSONOrder(t *testing.T) {
	t.Parallel()

	r := domain.Route{Coordinates: [][2]float64{{-87.6, 41.9}, {-104.9, 39.7}}}

	require.Equal(t, []domain.LatLon{
		{Lat: 41.9, Lon: -87.6},
		{Lat: 39.7, Lon: -104.9},
	}, r.LatLngs())
}

func TestRoute_LatLngs_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, domain.Route{}.LatLngs())
}

func TestVerdict_Score(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, domain.VerdictUp.Score())
	require.Equal(t, 0, domain.VerdictDown.Score())
	require.False(t, domain.Verdict("sideways").Valid())
}

func TestDispatchStatus_Settable(t *testing.T) {
	t.Parallel()

	require.True(t, domain.DispatchInTransit.Settable())
	require.True(t, domain.DispatchDelivered.Settable())
	require.False(t, domain.DispatchUnassigned.Settable())
}

func TestDispatchLoad_Label(t *testing.T) {
	t.Parallel()

	require.Equal(t, "REF-1", domain.DispatchLoad{ID: "1", Ref: "REF-1"}.Label())
	require.Equal(t, "1", domain.DispatchLoad{ID: "1"}.Label())
}

func TestMidpoint(t *testing.T) {
	t.Parallel()

	got := domain.Midpoint(domain.LatLon{Lat: 40, Lon: -100}, domain.LatLon{Lat: 42, Lon: -90})
	require.Equal(t, domain.LatLon{Lat: 41, Lon: -95}, got)
}
