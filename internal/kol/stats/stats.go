// Package stats computes aggregate metrics and a data-quality report over the
// KOL dataset. Every function is a pure scan of its input.
package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"kolanalytics/internal/kol/models"
)

// TopCountries is the number of countries reported in the ranking.
const TopCountries = 10

const (
	issueNoData = "No data loaded"
	issueNone   = "No significant data quality issues detected"
)

// Compute builds the full statistics bundle.
func Compute(records []models.KOL) models.Stats {
	if len(records) == 0 {
		return models.Stats{
			Top10CountriesByKOLCount:          []models.CountryCount{},
			HighestCitationsPerPublicationKOL: models.NoRatioKOL(),
			DataQualityIssues:                 []string{issueNoData},
		}
	}

	totalPublications := 0
	hIndexSum, hIndexN := 0, 0
	for _, kol := range records {
		if kol.PublicationsCount != nil {
			totalPublications += *kol.PublicationsCount
		}
		if kol.HIndex != nil {
			hIndexSum += *kol.HIndex
			hIndexN++
		}
	}
	avgHIndex := 0.0
	if hIndexN > 0 {
		avgHIndex = float64(hIndexSum) / float64(hIndexN)
	}

	countries := CountByCountry(records)

	return models.Stats{
		TotalKOLs:                         len(records),
		UniqueCountries:                   len(countries),
		TotalPublications:                 totalPublications,
		AvgHIndex:                         round2(avgHIndex),
		Top10CountriesByKOLCount:          topN(countries, TopCountries),
		HighestCitationsPerPublicationKOL: HighestRatio(records),
		DataQualityIssues:                 DataQualityIssues(records),
	}
}

// CountByCountry groups records by country. Groups appear in the order their
// country was first seen.
func CountByCountry(records []models.KOL) []models.CountryCount {
	index := make(map[string]int)
	counts := make([]models.CountryCount, 0)
	for _, kol := range records {
		i, ok := index[kol.Country]
		if !ok {
			i = len(counts)
			index[kol.Country] = i
			counts = append(counts, models.CountryCount{Country: kol.Country})
		}
		counts[i].Count++
	}
	return counts
}

// topN ranks groups by count descending. Equal counts keep first-seen order.
func topN(counts []models.CountryCount, n int) []models.CountryCount {
	ranked := slices.Clone(counts)
	slices.SortStableFunc(ranked, func(a, b models.CountryCount) int {
		return b.Count - a.Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// HighestRatio finds the record with the most citations per publication.
// Records without citations, without a publication count, or with zero
// publications are skipped. The first record reaching the maximum wins.
func HighestRatio(records []models.KOL) models.HighestRatioKOL {
	var best *models.KOL
	bestRatio := 0.0
	for i := range records {
		kol := &records[i]
		if kol.Citations == nil || kol.PublicationsCount == nil || *kol.PublicationsCount <= 0 {
			continue
		}
		ratio := float64(*kol.Citations) / float64(*kol.PublicationsCount)
		if ratio > bestRatio {
			bestRatio = ratio
			best = kol
		}
	}
	if best == nil {
		return models.NoRatioKOL()
	}
	return models.HighestRatioKOL{
		ID:                best.ID,
		Name:              best.Name,
		Ratio:             round2(bestRatio),
		Citations:         *best.Citations,
		PublicationsCount: *best.PublicationsCount,
	}
}

// DataQualityIssues lists human-readable findings in a fixed order. Only
// findings with a nonzero count are reported.
func DataQualityIssues(records []models.KOL) []string {
	if len(records) == 0 {
		return []string{issueNoData}
	}

	var missingPubs, missingCitations, missingHIndex, suspiciousZero, emptyNames, emptyCountries int
	seen := make(map[string]struct{}, len(records))
	for _, kol := range records {
		if kol.PublicationsCount == nil {
			missingPubs++
		}
		if kol.Citations == nil {
			missingCitations++
		}
		if kol.HIndex == nil {
			missingHIndex++
		}
		// research impact without any publications is implausible
		if kol.PublicationsCount != nil && *kol.PublicationsCount == 0 && kol.HIndex != nil && *kol.HIndex > 0 {
			suspiciousZero++
		}
		if strings.TrimSpace(kol.Name) == "" {
			emptyNames++
		}
		if strings.TrimSpace(kol.Country) == "" {
			emptyCountries++
		}
		seen[kol.ID] = struct{}{}
	}
	duplicates := len(records) - len(seen)

	checks := []struct {
		count  int
		format string
	}{
		{missingPubs, "%d KOL(s) with missing publications count"},
		{missingCitations, "%d KOL(s) with missing citations"},
		{missingHIndex, "%d KOL(s) with missing h-index"},
		{suspiciousZero, "%d KOL(s) with 0 publications but positive h-index"},
		{emptyNames, "%d KOL(s) with empty names"},
		{emptyCountries, "%d KOL(s) with empty countries"},
		{duplicates, "%d duplicate KOL ID(s) found"},
	}

	issues := make([]string, 0, len(checks))
	for _, c := range checks {
		if c.count > 0 {
			issues = append(issues, fmt.Sprintf(c.format, c.count))
		}
	}
	if len(issues) == 0 {
		issues = append(issues, issueNone)
	}
	return issues
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
