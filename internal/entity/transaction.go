package entity

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func IsValidTransactionType(transactionType string) bool {
	switch TransactionType(transactionType) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// Transaction is a single income or expense event attributed to one wallet.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	WalletID    string    `json:"wallet_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Signed returns the transaction's effect on its wallet balance: positive
// for income, negative for expense.
func (t *Transaction) Signed() float64 {
	if t.Type == string(TransactionTypeIncome) {
		return t.Amount
	}
	return -t.Amount
}
