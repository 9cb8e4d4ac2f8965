package domain

// LoadRecord is a fund load request as it arrives on the wire.
type LoadRecord struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	LoadAmount string `json:"load_amount"`
	Time       string `json:"time"`
}
