package models

// Recommendation is one validated candidate symbol produced by the model.
// Only Symbol is guaranteed to be non-empty.
//
// swagger:model Recommendation
type Recommendation struct {
	Symbol            string  `json:"symbol" example:"SNDL"`
	CompanyName       string  `json:"company_name" example:"SNDL Inc."`
	Reasoning         string  `json:"reasoning" example:"Rising volume after earnings beat"`
	Sector            *string `json:"sector"`
	RiskLevel         *string `json:"risk_level"`
	PotentialCatalyst *string `json:"potential_catalyst"`
}
