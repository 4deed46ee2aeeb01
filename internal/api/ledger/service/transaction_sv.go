package ledgerService

import (
	"ExpenseTracker/internal/api/ledger"
	ledgerRepository "ExpenseTracker/internal/api/ledger/repository"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/media"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// CreateOrUpdateTransaction validates the payload, uploads a pending receipt
// image, and then applies the transaction's effect to the target wallet and
// persists the record inside one database transaction. On update, a change
// to type, amount, or wallet triggers revert-and-reapply: the old effect is
// removed from the original wallet before the new one is applied to the
// (possibly different) target wallet, with the insufficient-funds guard
// re-checked against the post-revert balance. Any failure rolls the whole
// batch back, wallets included.
func (s *ledgerService) CreateOrUpdateTransaction(ctx context.Context, userID, transactionID string, req ledger.UpsertTransactionRequest, image *multipart.FileHeader) (entity.Transaction, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Amount <= 0 || req.WalletID == "" || !entity.IsValidTransactionType(req.Type) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  req.WalletID,
			"type":       req.Type,
			"amount":     req.Amount,
		}).Warn("Invalid transaction payload")
		return entity.Transaction{}, ledger.ErrInvalidTransaction
	}

	if transactionID == "" && req.Type == string(entity.TransactionTypeExpense) && req.Category == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Expense transaction without category")
		return entity.Transaction{}, ledger.ErrInvalidTransaction
	}

	date, err := parseTransactionDate(req.Date)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"date":       req.Date,
		}).Warn("Invalid transaction date")
		return entity.Transaction{}, ledger.ErrInvalidTransaction
	}

	// Resolve the receipt image before touching the ledger so an upload
	// failure leaves no writes behind.
	imageURL, err := s.resolveImage(ctx, req.ImageURL, image, "transactions")
	if err != nil {
		return entity.Transaction{}, err
	}

	repo, err := s.ledgerRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.Transaction{}, err
	}
	defer repo.Rollback()

	var transaction entity.Transaction
	if transactionID == "" {
		transaction, err = s.createTransaction(ctx, repo, userID, req, date, imageURL)
	} else {
		transaction, err = s.updateTransaction(ctx, repo, userID, transactionID, req, date, imageURL)
	}
	if err != nil {
		return entity.Transaction{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.Transaction{}, err
	}

	s.notifyWalletChange(ctx, userID)

	return transaction, nil
}

func (s *ledgerService) createTransaction(ctx context.Context, repo ledgerRepository.Client, userID string, req ledger.UpsertTransactionRequest, date time.Time, imageURL string) (entity.Transaction, error) {
	requestID := contextPkg.GetRequestID(ctx)

	wallet, err := repo.Wallets.GetByIDForUpdate(ctx, req.WalletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  req.WalletID,
			"error":      err.Error(),
		}).Error("Failed to get wallet")
		return entity.Transaction{}, err
	}

	if err := s.applyToWallet(ctx, repo, wallet, req.Amount, req.Type); err != nil {
		return entity.Transaction{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.Transaction{}, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := entity.Transaction{
		ID:          id,
		UserID:      userID,
		WalletID:    req.WalletID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    imageURL,
		Date:        date,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := repo.Transactions.Create(ctx, transaction); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create transaction")
		return entity.Transaction{}, ledger.ErrCreateTransaction
	}

	return transaction, nil
}

func (s *ledgerService) updateTransaction(ctx context.Context, repo ledgerRepository.Client, userID, transactionID string, req ledger.UpsertTransactionRequest, date time.Time, imageURL string) (entity.Transaction, error) {
	requestID := contextPkg.GetRequestID(ctx)

	old, err := repo.Transactions.GetByID(ctx, transactionID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"error":          err.Error(),
		}).Error("Failed to get existing transaction")
		return entity.Transaction{}, err
	}

	// Merge semantics: optional fields absent from the payload keep their
	// stored values.
	transaction := old
	transaction.WalletID = req.WalletID
	transaction.Type = req.Type
	transaction.Amount = req.Amount
	if req.Category != "" {
		transaction.Category = req.Category
	}
	if req.Description != "" {
		transaction.Description = req.Description
	}
	if imageURL != "" {
		transaction.ImageURL = imageURL
	}
	if !date.IsZero() {
		transaction.Date = date
	}
	transaction.UpdatedAt = time.Now()

	if transaction.Type == string(entity.TransactionTypeExpense) && transaction.Category == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Expense transaction without category")
		return entity.Transaction{}, ledger.ErrInvalidTransaction
	}

	balanceChanged := old.Type != req.Type ||
		old.Amount != req.Amount ||
		old.WalletID != req.WalletID

	if balanceChanged {
		if err := s.revertAndReapply(ctx, repo, old, req.WalletID, req.Type, req.Amount, userID); err != nil {
			return entity.Transaction{}, err
		}
	}

	if err := repo.Transactions.Update(ctx, transaction); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"error":          err.Error(),
		}).Error("Failed to update transaction")
		return entity.Transaction{}, ledger.ErrCreateTransaction
	}

	return transaction, nil
}

// revertAndReapply removes the old transaction's effect from its original
// wallet and applies the edited effect to the target wallet. Both wallets
// are row-locked and written inside the caller's database transaction, so
// a guard failure here rolls the revert back too.
func (s *ledgerService) revertAndReapply(ctx context.Context, repo ledgerRepository.Client, old entity.Transaction, newWalletID, newType string, newAmount float64, userID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	original, err := repo.Wallets.GetByIDForUpdate(ctx, old.WalletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  old.WalletID,
			"error":      err.Error(),
		}).Error("Failed to get original wallet")
		return err
	}

	revertedAmount := original.Amount - old.Signed()
	revertedIncome := original.TotalIncome
	revertedExpenses := original.TotalExpenses
	if old.Type == string(entity.TransactionTypeIncome) {
		revertedIncome -= old.Amount
	} else {
		revertedExpenses -= old.Amount
	}

	// Reverting an income must not overdraw the original wallet.
	if revertedAmount < 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  original.ID,
			"balance":    original.Amount,
			"reverted":   revertedAmount,
		}).Warn("Revert would overdraw original wallet")
		return ledger.ErrInsufficientFunds
	}

	if err := repo.Wallets.UpdateBalances(ctx, original.ID, userID, revertedAmount, revertedIncome, revertedExpenses); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  original.ID,
			"error":      err.Error(),
		}).Error("Failed to revert original wallet")
		return err
	}

	// Re-read the target after the revert: when the edit stays on the same
	// wallet this observes the reverted balance.
	target, err := repo.Wallets.GetByIDForUpdate(ctx, newWalletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  newWalletID,
			"error":      err.Error(),
		}).Error("Failed to get target wallet")
		return err
	}

	return s.applyToWallet(ctx, repo, target, newAmount, newType)
}

// applyToWallet adds a new transaction's effect to the wallet, guarding
// expenses against driving the balance negative. No writes happen on a
// guard failure.
func (s *ledgerService) applyToWallet(ctx context.Context, repo ledgerRepository.Client, wallet entity.Wallet, amount float64, transactionType string) error {
	requestID := contextPkg.GetRequestID(ctx)

	if transactionType == string(entity.TransactionTypeExpense) && wallet.Amount-amount < 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  wallet.ID,
			"balance":    wallet.Amount,
			"amount":     amount,
		}).Warn("Insufficient funds")
		return ledger.ErrInsufficientFunds
	}

	newAmount := wallet.Amount
	newIncome := wallet.TotalIncome
	newExpenses := wallet.TotalExpenses
	if transactionType == string(entity.TransactionTypeIncome) {
		newAmount += amount
		newIncome += amount
	} else {
		newAmount -= amount
		newExpenses += amount
	}

	if err := repo.Wallets.UpdateBalances(ctx, wallet.ID, wallet.UserID, newAmount, newIncome, newExpenses); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  wallet.ID,
			"error":      err.Error(),
		}).Error("Failed to update wallet balances")
		return err
	}

	return nil
}

// DeleteTransaction reverses the transaction's effect on its wallet and
// removes the record, as one database transaction. Reversals that would
// overdraw the wallet are rejected before any write.
func (s *ledgerService) DeleteTransaction(ctx context.Context, userID, transactionID, walletID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.ledgerRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return err
	}
	defer repo.Rollback()

	transaction, err := repo.Transactions.GetByID(ctx, transactionID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"error":          err.Error(),
		}).Error("Failed to get transaction")
		return err
	}

	// The reversal must hit the wallet the transaction was booked on. A
	// caller naming any other wallet would debit funds that wallet never
	// received.
	if walletID != "" && walletID != transaction.WalletID {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"wallet_id":      walletID,
		}).Warn("Wallet does not match transaction")
		return ledger.ErrInvalidTransaction
	}

	wallet, err := repo.Wallets.GetByIDForUpdate(ctx, transaction.WalletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  transaction.WalletID,
			"error":      err.Error(),
		}).Error("Failed to get wallet")
		return err
	}

	newAmount := wallet.Amount - transaction.Signed()
	newIncome := wallet.TotalIncome
	newExpenses := wallet.TotalExpenses
	if transaction.Type == string(entity.TransactionTypeIncome) {
		newIncome -= transaction.Amount
	} else {
		newExpenses -= transaction.Amount
	}

	if newAmount < 0 {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"wallet_id":      wallet.ID,
			"balance":        wallet.Amount,
		}).Warn("Reversal would overdraw wallet")
		return ledger.ErrCannotRevertTransaction
	}

	if err := repo.Wallets.UpdateBalances(ctx, wallet.ID, userID, newAmount, newIncome, newExpenses); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  wallet.ID,
			"error":      err.Error(),
		}).Error("Failed to update wallet balances")
		return err
	}

	if err := repo.Transactions.Delete(ctx, transactionID, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": transactionID,
			"error":          err.Error(),
		}).Error("Failed to delete transaction")
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	s.notifyWalletChange(ctx, userID)
	s.removeStoredImage(ctx, transaction.ImageURL)

	return nil
}

func (s *ledgerService) GetTransactions(ctx context.Context, userID, search string, page, limit int) (*ledger.TransactionListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	transactions, total, err := repo.Transactions.GetByUserID(ctx, userID, search, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to get transactions")
		return nil, err
	}

	for i := range transactions {
		transactions[i].ImageURL = s.presignedImage(ctx, transactions[i].ImageURL)
	}

	return &ledger.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
	}, nil
}

// presignedImage swaps a stored object URL for a short-lived signed one on
// the read path. When signing fails the stored URL is served as-is.
func (s *ledgerService) presignedImage(ctx context.Context, imageURL string) string {
	if imageURL == "" {
		return ""
	}

	signed, err := s.media.PresignUrl(imageURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to presign image URL")
		return imageURL
	}

	return signed
}

// removeStoredImage deletes an uploaded object once the record referencing
// it is gone. Best effort, an orphaned file never fails the operation.
func (s *ledgerService) removeStoredImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}

	if err := s.media.DeleteFile(imageURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to delete stored image")
	}
}

func (s *ledgerService) resolveImage(ctx context.Context, remoteURL string, file *multipart.FileHeader, folder string) (string, error) {
	ref := media.ImageRef{Remote: remoteURL, Pending: file}
	if ref.IsZero() {
		return "", nil
	}

	if ref.IsPending() {
		if err := s.utils.ValidateImageFile(file); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"filename":   file.Filename,
				"error":      err.Error(),
			}).Warn("Invalid image file")
			return "", ledger.ErrInvalidTransaction
		}
	}

	url, err := s.media.Resolve(ref, folder)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to upload image")
		return "", ledger.ErrImageUpload
	}

	return url, nil
}

// notifyWalletChange republishes the user's wallet snapshot to live
// subscribers and drops cached statistics. Failures here are logged but do
// not fail the committed operation.
func (s *ledgerService) notifyWalletChange(ctx context.Context, userID string) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := s.cache.InvalidateStats(ctx, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate stats cache")
	}

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create new client for live feed")
		return
	}

	wallets, err := repo.Wallets.GetByUserID(ctx, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Warn("Failed to load wallets for live feed")
		return
	}

	s.feed.Publish(userID, wallets)
}

func parseTransactionDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}
