package entity

import (
	"time"
)

// Wallet is a named money container. Amount always equals the sum of income
// transactions minus the sum of expense transactions attributed to it, and
// TotalIncome/TotalExpenses track the two sums independently.
type Wallet struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url,omitempty"`
	Amount        float64   `json:"amount"`
	TotalIncome   float64   `json:"total_income"`
	TotalExpenses float64   `json:"total_expenses"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
