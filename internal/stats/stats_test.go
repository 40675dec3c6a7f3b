package stats_test

import (
	"testing"

	"github.com/roadwatch/dgt-situation-etl/internal/domain"
	"github.com/roadwatch/dgt-situation-etl/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func situation(id, province, municipality, community, severity, mgmt string) domain.Situation {
	s := domain.Situation{ID: id, Latitude: 40.0, Longitude: -3.5}
	if province != "" {
		s.Province = strp(province)
	}
	if municipality != "" {
		s.Municipality = strp(municipality)
	}
	if community != "" {
		s.AutonomousCommunity = strp(community)
	}
	if severity != "" {
		s.Severity = strp(severity)
	}
	if mgmt != "" {
		s.ManagementType = strp(mgmt)
	}
	return s
}

func TestBuild_Summary(t *testing.T) {
	report := stats.Build([]domain.Situation{
		situation("S1", "Madrid", "Madrid", "Comunidad de Madrid", "high", "laneClosures"),
		situation("S2", "Madrid", "Alcobendas", "Comunidad de Madrid", "high", "roadClosed"),
		situation("S3", "Sevilla", "Sevilla", "Andalucía", "low", "laneClosures"),
	})

	assert.Equal(t, 3, report.Summary.TotalSituations)
	assert.Equal(t, 2, report.Summary.Provinces)
	assert.Equal(t, 2, report.Summary.AutonomousCommunities)
	assert.Equal(t, 3, report.Summary.Municipalities)
}

func TestBuild_ByProvinceSortedDescending(t *testing.T) {
	report := stats.Build([]domain.Situation{
		situation("S1", "Madrid", "Madrid", "", "", ""),
		situation("S2", "Madrid", "Getafe", "", "", ""),
		situation("S3", "Burgos", "Burgos", "", "", ""),
	})

	require.Len(t, report.ByProvince, 2)
	assert.Equal(t, "Madrid", report.ByProvince[0].Province)
	assert.Equal(t, 2, report.ByProvince[0].Total)
	assert.Equal(t, 2, report.ByProvince[0].Municipalities)
	assert.Equal(t, "Burgos", report.ByProvince[1].Province)
}

func TestBuild_AbsentFieldsBucketedAsUnspecified(t *testing.T) {
	report := stats.Build([]domain.Situation{
		situation("S1", "", "", "", "", ""),
		situation("S2", "Madrid", "", "", "high", ""),
	})

	require.Len(t, report.ByProvince, 2)
	provinces := []string{report.ByProvince[0].Province, report.ByProvince[1].Province}
	assert.Contains(t, provinces, stats.Unspecified)
	assert.Contains(t, provinces, "Madrid")

	require.Len(t, report.BySeverity, 2)
	for _, sev := range report.BySeverity {
		assert.Equal(t, 1, sev.Total)
		assert.InDelta(t, 50.0, sev.Percent, 0.01)
	}
}

func TestBuild_SeverityPercentagesSumToHundred(t *testing.T) {
	report := stats.Build([]domain.Situation{
		situation("S1", "", "", "", "high", ""),
		situation("S2", "", "", "", "high", ""),
		situation("S3", "", "", "", "medium", ""),
		situation("S4", "", "", "", "low", ""),
	})

	var sum float64
	for _, sev := range report.BySeverity {
		sum += sev.Percent
	}
	assert.InDelta(t, 100.0, sum, 0.2)
}

func TestBuild_CommunityCountsDistinctProvinces(t *testing.T) {
	report := stats.Build([]domain.Situation{
		situation("S1", "Sevilla", "", "Andalucía", "", ""),
		situation("S2", "Málaga", "", "Andalucía", "", ""),
		situation("S3", "Sevilla", "", "Andalucía", "", ""),
	})

	require.Len(t, report.ByCommunity, 1)
	assert.Equal(t, "Andalucía", report.ByCommunity[0].Community)
	assert.Equal(t, 3, report.ByCommunity[0].Total)
	assert.Equal(t, 2, report.ByCommunity[0].Provinces)
}

func TestBuild_Empty(t *testing.T) {
	report := stats.Build(nil)
	assert.Zero(t, report.Summary.TotalSituations)
	assert.Empty(t, report.ByProvince)
	assert.Empty(t, report.BySeverity)
}
