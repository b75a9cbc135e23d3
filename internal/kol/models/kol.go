package models

// KOL is a Key Opinion Leader profile. Optional numeric fields are nil when the
// source did not provide them; absence is kept distinct from zero.
type KOL struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Affiliation       string  `json:"affiliation" yaml:"affiliation"`
	Country           string  `json:"country" yaml:"country"`
	City              *string `json:"city" yaml:"city"`
	ExpertiseArea     string  `json:"expertise_area" yaml:"expertise_area"`
	PublicationsCount *int    `json:"publications_count" yaml:"publications_count"`
	HIndex            *int    `json:"h_index" yaml:"h_index"`
	Citations         *int    `json:"citations" yaml:"citations"`
}

// IntPtr returns a pointer to v. Used when building records in loaders and tests.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}
