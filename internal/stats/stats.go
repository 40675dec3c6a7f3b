// Package stats aggregates extracted situations for the report endpoint.
package stats

import (
	"math"
	"sort"

	"github.com/roadwatch/dgt-situation-etl/internal/domain"
)

// Unspecified is the bucket for situations missing the grouped-by field.
const Unspecified = "unspecified"

// Summary holds the headline counts of a report.
type Summary struct {
	TotalSituations       int `json:"total_situations"`
	Provinces             int `json:"provinces"`
	AutonomousCommunities int `json:"autonomous_communities"`
	Municipalities        int `json:"municipalities"`
}

// ProvinceCount is the per-province incident tally.
type ProvinceCount struct {
	Province       string `json:"province"`
	Total          int    `json:"total"`
	Municipalities int    `json:"municipalities"` // distinct municipalities affected
}

// SeverityCount is the severity distribution entry.
type SeverityCount struct {
	Severity string  `json:"severity"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

// CommunityCount is the per-autonomous-community tally.
type CommunityCount struct {
	Community string `json:"autonomous_community"`
	Total     int    `json:"total"`
	Provinces int    `json:"provinces"` // distinct provinces affected
}

// ManagementTypeCount is the management-type distribution entry.
type ManagementTypeCount struct {
	ManagementType string  `json:"management_type"`
	Total          int     `json:"total"`
	Percent        float64 `json:"percent"`
}

// Report is the full aggregation over one extraction snapshot.
type Report struct {
	Summary          Summary               `json:"summary"`
	ByProvince       []ProvinceCount       `json:"by_province"`
	BySeverity       []SeverityCount       `json:"by_severity"`
	ByCommunity      []CommunityCount      `json:"by_autonomous_community"`
	ByManagementType []ManagementTypeCount `json:"by_management_type"`
}

// Build computes the report for a slice of situations. Counts are
// descending, ties broken by name, so output is deterministic.
func Build(situations []domain.Situation) Report {
	provTotals := map[string]int{}
	provMunicipalities := map[string]map[string]struct{}{}
	sevTotals := map[string]int{}
	commTotals := map[string]int{}
	commProvinces := map[string]map[string]struct{}{}
	mgmtTotals := map[string]int{}
	municipalities := map[string]struct{}{}

	for _, s := range situations {
		prov := orUnspecified(s.Province)
		muni := orUnspecified(s.Municipality)
		comm := orUnspecified(s.AutonomousCommunity)

		provTotals[prov]++
		if provMunicipalities[prov] == nil {
			provMunicipalities[prov] = map[string]struct{}{}
		}
		provMunicipalities[prov][muni] = struct{}{}

		sevTotals[orUnspecified(s.Severity)]++

		commTotals[comm]++
		if commProvinces[comm] == nil {
			commProvinces[comm] = map[string]struct{}{}
		}
		commProvinces[comm][prov] = struct{}{}

		mgmtTotals[orUnspecified(s.ManagementType)]++
		municipalities[muni] = struct{}{}
	}

	total := len(situations)

	report := Report{
		Summary: Summary{
			TotalSituations:       total,
			Provinces:             len(provTotals),
			AutonomousCommunities: len(commTotals),
			Municipalities:        len(municipalities),
		},
	}

	for prov, n := range provTotals {
		report.ByProvince = append(report.ByProvince, ProvinceCount{
			Province:       prov,
			Total:          n,
			Municipalities: len(provMunicipalities[prov]),
		})
	}
	sort.Slice(report.ByProvince, func(i, j int) bool {
		a, b := report.ByProvince[i], report.ByProvince[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Province < b.Province
	})

	for sev, n := range sevTotals {
		report.BySeverity = append(report.BySeverity, SeverityCount{
			Severity: sev,
			Total:    n,
			Percent:  percent(n, total),
		})
	}
	sort.Slice(report.BySeverity, func(i, j int) bool {
		a, b := report.BySeverity[i], report.BySeverity[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Severity < b.Severity
	})

	for comm, n := range commTotals {
		report.ByCommunity = append(report.ByCommunity, CommunityCount{
			Community: comm,
			Total:     n,
			Provinces: len(commProvinces[comm]),
		})
	}
	sort.Slice(report.ByCommunity, func(i, j int) bool {
		a, b := report.ByCommunity[i], report.ByCommunity[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Community < b.Community
	})

	for mgmt, n := range mgmtTotals {
		report.ByManagementType = append(report.ByManagementType, ManagementTypeCount{
			ManagementType: mgmt,
			Total:          n,
			Percent:        percent(n, total),
		})
	}
	sort.Slice(report.ByManagementType, func(i, j int) bool {
		a, b := report.ByManagementType[i], report.ByManagementType[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.ManagementType < b.ManagementType
	})

	return report
}

func orUnspecified(s *string) string {
	if s == nil || *s == "" {
		return Unspecified
	}
	return *s
}

// percent returns n/total as a percentage rounded to one decimal.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
