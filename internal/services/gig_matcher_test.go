package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livemusiclocator/allptvlml/internal/models"
)

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

// Offsets from the reference stop at Flinders St: one degree of latitude is
// roughly 111 km, so 0.001 degrees is roughly 111 m.
const (
	refLat = -37.8136
	refLon = 144.9631
)

func gigAt(name string, lat, lon float64) models.Gig {
	latP, lonP := coords(lat, lon)
	return models.Gig{
		Name:  name,
		Venue: models.Venue{Name: name + " venue", Latitude: latP, Longitude: lonP},
	}
}

func TestNearby_AttachesGigsWithinRadius(t *testing.T) {
	stops := []models.Stop{{ID: 1, Name: "Flinders St", Latitude: refLat, Longitude: refLon}}
	gigList := []models.Gig{
		gigAt("close", refLat+0.001, refLon),
		gigAt("far", refLat+0.01, refLon), // ~1.1 km away
	}

	matched, found := NewGigMatcher().Nearby(stops, gigList)

	require.True(t, found)
	require.Len(t, matched, 1)
	require.Len(t, matched[0].NearbyGigs, 1)
	assert.Equal(t, "close", matched[0].NearbyGigs[0].Name)
	assert.Greater(t, matched[0].NearbyGigs[0].DistanceMeters, 0.0)
	assert.LessOrEqual(t, matched[0].NearbyGigs[0].DistanceMeters, NearbyRadiusMeters)
}

func TestNearby_SortsGigsByDistance(t *testing.T) {
	stops := []models.Stop{{ID: 1, Name: "Flinders St", Latitude: refLat, Longitude: refLon}}
	gigList := []models.Gig{
		gigAt("further", refLat+0.003, refLon),
		gigAt("closest", refLat+0.001, refLon),
		gigAt("middle", refLat+0.002, refLon),
	}

	matched, _ := NewGigMatcher().Nearby(stops, gigList)

	require.Len(t, matched, 1)
	near := matched[0].NearbyGigs
	require.Len(t, near, 3)
	assert.Equal(t, "closest", near[0].Name)
	assert.Equal(t, "middle", near[1].Name)
	assert.Equal(t, "further", near[2].Name)
}

func TestNearby_SkipsVenuesWithoutCoordinates(t *testing.T) {
	stops := []models.Stop{{ID: 1, Latitude: refLat, Longitude: refLon}}
	gigList := []models.Gig{
		{Name: "no location", Venue: models.Venue{Name: "Somewhere"}},
	}

	matched, found := NewGigMatcher().Nearby(stops, gigList)

	assert.False(t, found)
	assert.Empty(t, matched)
}

func TestNearby_NoMatches(t *testing.T) {
	stops := []models.Stop{{ID: 1, Latitude: refLat, Longitude: refLon}}
	gigList := []models.Gig{gigAt("far", refLat+0.01, refLon)}

	matched, found := NewGigMatcher().Nearby(stops, gigList)

	assert.False(t, found)
	assert.Empty(t, matched)
}

func TestNearby_DoesNotMutateInput(t *testing.T) {
	stops := []models.Stop{{ID: 1, Latitude: refLat, Longitude: refLon}}
	gigList := []models.Gig{gigAt("close", refLat+0.001, refLon)}

	matched, found := NewGigMatcher().Nearby(stops, gigList)

	require.True(t, found)
	require.Len(t, matched, 1)
	assert.Nil(t, stops[0].NearbyGigs)
	assert.NotNil(t, matched[0].NearbyGigs)
}

func TestAhead_UnknownStop(t *testing.T) {
	stops := []models.Stop{{ID: 1, Sequence: 1, Latitude: refLat, Longitude: refLon}}

	current, matched, found, err := NewGigMatcher().Ahead(stops, 99, nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, current)
	assert.Nil(t, matched)
	assert.False(t, found)
}

func TestAhead_OnlyCurrentAndFollowingStopsConsidered(t *testing.T) {
	stops := []models.Stop{
		{ID: 1, Name: "Behind", Sequence: 1, Latitude: refLat, Longitude: refLon},
		{ID: 2, Name: "Current", Sequence: 2, Latitude: refLat + 0.001, Longitude: refLon},
		{ID: 3, Name: "Ahead", Sequence: 3, Latitude: refLat + 0.002, Longitude: refLon},
	}
	// One gig close enough to all three stops.
	gigList := []models.Gig{gigAt("everywhere", refLat+0.001, refLon)}

	current, matched, found, err := NewGigMatcher().Ahead(stops, 2, gigList)

	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Current", current.Name)
	require.True(t, found)
	require.Len(t, matched, 2)
	assert.Equal(t, "Current", matched[0].Name)
	assert.Equal(t, "Ahead", matched[1].Name)
}

func TestAhead_StopWithoutSequenceComparesAsZero(t *testing.T) {
	stops := []models.Stop{
		{ID: 1, Name: "Unsequenced", Sequence: 0, Latitude: refLat, Longitude: refLon},
		{ID: 2, Name: "Current", Sequence: 2, Latitude: refLat, Longitude: refLon},
		{ID: 3, Name: "Ahead", Sequence: 3, Latitude: refLat, Longitude: refLon},
	}
	gigList := []models.Gig{gigAt("everywhere", refLat, refLon)}

	_, matched, _, err := NewGigMatcher().Ahead(stops, 2, gigList)
	require.NoError(t, err)

	names := make([]string, 0, len(matched))
	for _, stop := range matched {
		names = append(names, stop.Name)
	}
	assert.NotContains(t, names, "Unsequenced")
	assert.Contains(t, names, "Ahead")
}

func TestAhead_CurrentStopWithoutSequence(t *testing.T) {
	// A target with no raw sequence treats everything positive as ahead.
	stops := []models.Stop{
		{ID: 1, Name: "Current", Sequence: 0, Latitude: refLat, Longitude: refLon},
		{ID: 2, Name: "Next", Sequence: 1, Latitude: refLat, Longitude: refLon},
	}
	gigList := []models.Gig{gigAt("everywhere", refLat, refLon)}

	current, matched, found, err := NewGigMatcher().Ahead(stops, 1, gigList)

	require.NoError(t, err)
	assert.Equal(t, "Current", current.Name)
	require.True(t, found)
	require.Len(t, matched, 2)
}
