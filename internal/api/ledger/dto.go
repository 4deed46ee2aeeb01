package ledger

import (
	"ExpenseTracker/internal/entity"
)

type UpsertTransactionRequest struct {
	WalletID    string  `json:"wallet_id" form:"wallet_id" validate:"required"`
	Type        string  `json:"type" form:"type" validate:"required,oneof=income expense"`
	Amount      float64 `json:"amount" form:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" form:"category"`
	Description string  `json:"description" form:"description"`
	Date        string  `json:"date" form:"date"`
	ImageURL    string  `json:"image_url" form:"image_url"`
}

type UpsertWalletRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	ImageURL string `json:"image_url" form:"image_url"`
}

type TransactionListResponse struct {
	Transactions []entity.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}

// StatBucket is one reporting period (a day, a month, or a year) with the
// summed income and expense of the transactions falling into it.
type StatBucket struct {
	Label   string  `json:"label"`
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type PeriodStatsResponse struct {
	Period       string               `json:"period"`
	Buckets      []StatBucket         `json:"buckets"`
	Transactions []entity.Transaction `json:"transactions"`
}
