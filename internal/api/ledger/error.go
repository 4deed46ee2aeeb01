package ledger

import (
	"ExpenseTracker/pkg/response"
)

var (
	ErrInvalidTransaction      = response.NewError(400, "invalid transaction data")
	ErrInsufficientFunds       = response.NewError(400, "insufficient funds")
	ErrWalletNotFound          = response.NewError(404, "wallet not found")
	ErrTransactionNotFound     = response.NewError(404, "transaction not found")
	ErrCannotRevertTransaction = response.NewError(400, "deleting this transaction would overdraw the wallet")
	ErrWalletNameRequired      = response.NewError(400, "wallet name is required")
	ErrInvalidPeriod           = response.NewError(400, "invalid statistics period")
	ErrImageUpload             = response.NewError(500, "could not upload image")
	ErrCreateTransaction       = response.NewError(500, "failed to save transaction")
	ErrCreateWallet            = response.NewError(500, "failed to save wallet")
)
