package models

// PriceSnapshot is the per-symbol result of a two-session history fetch.
//
// Fields:
//   - CurrentPrice: most recent close.
//   - PreviousClose: prior session close.
//   - Volume: most recent session volume.
//   - MarketCap, Sector: optional, nil when the provider does not report them.
//
// Change and ChangePercent are always derived from the two closes.
type PriceSnapshot struct {
	Symbol        string
	CompanyName   string
	CurrentPrice  float64
	PreviousClose float64
	Volume        int64
	MarketCap     *float64
	Sector        *string
}

// Change returns CurrentPrice - PreviousClose.
func (s PriceSnapshot) Change() float64 {
	return s.CurrentPrice - s.PreviousClose
}

// ChangePercent returns the change relative to the previous close, in percent.
// A non-positive previous close yields 0.
func (s PriceSnapshot) ChangePercent() float64 {
	if s.PreviousClose <= 0 {
		return 0
	}
	return s.Change() / s.PreviousClose * 100
}

// PennyStock is a gainer that passed the price/gain filter, rounded for output.
//
// swagger:model PennyStock
type PennyStock struct {
	Symbol        string   `json:"symbol" example:"SNDL"`
	CompanyName   string   `json:"company_name" example:"SNDL Inc."`
	CurrentPrice  float64  `json:"current_price" example:"1.5"`
	PreviousClose float64  `json:"previous_close" example:"1.35"`
	Change        float64  `json:"change" example:"0.15"`
	ChangePercent float64  `json:"change_percent" example:"11.11"`
	Volume        int64    `json:"volume" example:"1200000"`
	MarketCap     *float64 `json:"market_cap"`
	Sector        *string  `json:"sector"`
}
