package prices

// PriceBar represents one daily closing price observation for a symbol.
// Dates are normalized calendar dates (YYYY-MM-DD) with no time component.
type PriceBar struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

// Quote is the latest observation for a symbol together with its change
// against the previous trading day.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	Date          string  `json:"datetime"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}
