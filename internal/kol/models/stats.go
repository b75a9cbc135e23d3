package models

// CountryCount is the number of KOLs from one country.
type CountryCount struct {
	Country string `json:"country" yaml:"country"`
	Count   int    `json:"count" yaml:"count"`
}

// HighestRatioKOL summarises the KOL with the most citations per publication.
type HighestRatioKOL struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Ratio             float64 `json:"ratio" yaml:"ratio"`
	Citations         int     `json:"citations" yaml:"citations"`
	PublicationsCount int     `json:"publications_count" yaml:"publications_count"`
}

// NoRatioKOL is reported when no record has both citations and a positive
// publication count.
func NoRatioKOL() HighestRatioKOL {
	return HighestRatioKOL{ID: "", Name: "N/A"}
}

// Stats is the aggregate view over the whole dataset.
type Stats struct {
	TotalKOLs                         int             `json:"total_kols" yaml:"total_kols"`
	UniqueCountries                   int             `json:"unique_countries" yaml:"unique_countries"`
	TotalPublications                 int             `json:"total_publications" yaml:"total_publications"`
	AvgHIndex                         float64         `json:"avg_h_index" yaml:"avg_h_index"`
	Top10CountriesByKOLCount          []CountryCount  `json:"top10_countries_by_kol_count" yaml:"top10_countries_by_kol_count"`
	HighestCitationsPerPublicationKOL HighestRatioKOL `json:"highest_citations_per_publication_kol" yaml:"highest_citations_per_publication_kol"`
	DataQualityIssues                 []string        `json:"data_quality_issues" yaml:"data_quality_issues"`
}
