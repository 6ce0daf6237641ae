package models

// Property is a listing as the platform reports it. LTP is the last traded
// price in the platform currency.
type Property struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	LTP         float64 `json:"ltp"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
}
