package ledgerService

import (
	ledgerRepository "ExpenseTracker/internal/api/ledger/repository"
	"ExpenseTracker/internal/entity"
	"ExpenseTracker/pkg/livefeed"
	"ExpenseTracker/pkg/media"
	"ExpenseTracker/pkg/redis"
	"ExpenseTracker/pkg/utils"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"ExpenseTracker/internal/api/ledger"

	"github.com/sirupsen/logrus"
)

// fakeStore is the in-memory backing state shared by the fake repositories.
type fakeStore struct {
	wallets      map[string]entity.Wallet
	transactions map[string]entity.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:      make(map[string]entity.Wallet),
		transactions: make(map[string]entity.Transaction),
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for id, w := range s.wallets {
		c.wallets[id] = w
	}
	for id, t := range s.transactions {
		c.transactions[id] = t
	}
	return c
}

// fakeRepository mimics the transactional client: with tx=true all writes go
// to a working copy that only replaces the live state on Commit, so a failed
// operation must leave the store untouched.
type fakeRepository struct {
	store *fakeStore
}

func (r *fakeRepository) NewClient(tx bool) (ledgerRepository.Client, error) {
	working := r.store
	commit := func() error { return nil }

	if tx {
		working = r.store.clone()
		snapshot := working
		commit = func() error {
			*r.store = *snapshot
			return nil
		}
	}

	return ledgerRepository.Client{
		Wallets:      &fakeWalletRepo{store: working},
		Transactions: &fakeTransactionRepo{store: working},
		Commit:       commit,
		Rollback:     func() error { return nil },
	}, nil
}

type fakeWalletRepo struct {
	store *fakeStore
}

func (r *fakeWalletRepo) Create(_ context.Context, wallet entity.Wallet) error {
	r.store.wallets[wallet.ID] = wallet
	return nil
}

func (r *fakeWalletRepo) GetByID(_ context.Context, id, userID string) (entity.Wallet, error) {
	wallet, ok := r.store.wallets[id]
	if !ok || wallet.UserID != userID {
		return entity.Wallet{}, ledger.ErrWalletNotFound
	}
	return wallet, nil
}

func (r *fakeWalletRepo) GetByIDForUpdate(ctx context.Context, id, userID string) (entity.Wallet, error) {
	return r.GetByID(ctx, id, userID)
}

func (r *fakeWalletRepo) GetByUserID(_ context.Context, userID string) ([]entity.Wallet, error) {
	var wallets []entity.Wallet
	for _, wallet := range r.store.wallets {
		if wallet.UserID == userID {
			wallets = append(wallets, wallet)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

func (r *fakeWalletRepo) Update(_ context.Context, wallet entity.Wallet) error {
	stored, ok := r.store.wallets[wallet.ID]
	if !ok || stored.UserID != wallet.UserID {
		return ledger.ErrWalletNotFound
	}
	stored.Name = wallet.Name
	stored.ImageURL = wallet.ImageURL
	stored.UpdatedAt = wallet.UpdatedAt
	r.store.wallets[wallet.ID] = stored
	return nil
}

func (r *fakeWalletRepo) UpdateBalances(_ context.Context, id, userID string, amount, totalIncome, totalExpenses float64) error {
	stored, ok := r.store.wallets[id]
	if !ok || stored.UserID != userID {
		return ledger.ErrWalletNotFound
	}
	stored.Amount = amount
	stored.TotalIncome = totalIncome
	stored.TotalExpenses = totalExpenses
	r.store.wallets[id] = stored
	return nil
}

func (r *fakeWalletRepo) Delete(_ context.Context, id, userID string) error {
	stored, ok := r.store.wallets[id]
	if !ok || stored.UserID != userID {
		return ledger.ErrWalletNotFound
	}
	delete(r.store.wallets, id)
	return nil
}

type fakeTransactionRepo struct {
	store *fakeStore
}

func (r *fakeTransactionRepo) Create(_ context.Context, transaction entity.Transaction) error {
	r.store.transactions[transaction.ID] = transaction
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id, userID string) (entity.Transaction, error) {
	transaction, ok := r.store.transactions[id]
	if !ok || transaction.UserID != userID {
		return entity.Transaction{}, ledger.ErrTransactionNotFound
	}
	return transaction, nil
}

func (r *fakeTransactionRepo) GetByUserID(_ context.Context, userID, search string, limit, offset int) ([]entity.Transaction, int, error) {
	var matches []entity.Transaction
	for _, transaction := range r.store.transactions {
		if transaction.UserID != userID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(transaction.Description), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(transaction.Category), strings.ToLower(search)) &&
			transaction.Type != search {
			continue
		}
		matches = append(matches, transaction)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.After(matches[j].Date) })

	total := len(matches)
	if offset >= len(matches) {
		return nil, total, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, total, nil
}

func (r *fakeTransactionRepo) GetByDateRange(_ context.Context, userID string, from, to time.Time) ([]entity.Transaction, error) {
	var matches []entity.Transaction
	for _, transaction := range r.store.transactions {
		if transaction.UserID != userID {
			continue
		}
		if transaction.Date.Before(from) || transaction.Date.After(to) {
			continue
		}
		matches = append(matches, transaction)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.After(matches[j].Date) })
	return matches, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, transaction entity.Transaction) error {
	stored, ok := r.store.transactions[transaction.ID]
	if !ok || stored.UserID != transaction.UserID {
		return ledger.ErrTransactionNotFound
	}
	r.store.transactions[transaction.ID] = transaction
	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id, userID string) error {
	stored, ok := r.store.transactions[id]
	if !ok || stored.UserID != userID {
		return ledger.ErrTransactionNotFound
	}
	delete(r.store.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) DeleteByWalletID(_ context.Context, walletID, userID string) error {
	for id, transaction := range r.store.transactions {
		if transaction.WalletID == walletID && transaction.UserID == userID {
			delete(r.store.transactions, id)
		}
	}
	return nil
}

type fakeMedia struct {
	uploads       int
	failUpload    bool
	presignPrefix string
	deleted       []string
}

func (m *fakeMedia) Resolve(ref media.ImageRef, folder string) (string, error) {
	if ref.IsPending() {
		if m.failUpload {
			return "", errors.New("upload failed")
		}
		m.uploads++
		return "https://cdn.example.com/" + folder + "/" + ref.Pending.Filename, nil
	}
	return ref.Remote, nil
}

func (m *fakeMedia) PresignUrl(fileUrl string) (string, error) {
	return m.presignPrefix + fileUrl, nil
}

func (m *fakeMedia) DeleteFile(fileUrl string) error {
	m.deleted = append(m.deleted, fileUrl)
	return nil
}

type fakeCache struct {
	entries     map[string]string
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) GetStats(_ context.Context, userID, period string) (string, error) {
	payload, ok := c.entries[userID+":"+period]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return payload, nil
}

func (c *fakeCache) SetStats(_ context.Context, userID, period string, payload string, _ time.Duration) error {
	c.entries[userID+":"+period] = payload
	return nil
}

func (c *fakeCache) InvalidateStats(_ context.Context, userID string) error {
	c.invalidated++
	for key := range c.entries {
		if strings.HasPrefix(key, userID+":") {
			delete(c.entries, key)
		}
	}
	return nil
}

type testDeps struct {
	store *fakeStore
	media *fakeMedia
	cache *fakeCache
	feed  livefeed.IFeed
}

func newTestService() (ILedgerService, *testDeps) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	deps := &testDeps{
		store: newFakeStore(),
		media: &fakeMedia{},
		cache: newFakeCache(),
		feed:  livefeed.New(),
	}

	service := NewLedgerService(
		logger,
		&fakeRepository{store: deps.store},
		deps.media,
		deps.cache,
		deps.feed,
		utils.New(),
	)

	return service, deps
}

func seedWallet(deps *testDeps, id, userID string, amount, income, expenses float64) {
	deps.store.wallets[id] = entity.Wallet{
		ID:            id,
		UserID:        userID,
		Name:          "Wallet " + id,
		Amount:        amount,
		TotalIncome:   income,
		TotalExpenses: expenses,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func seedTransaction(deps *testDeps, id, userID, walletID, transactionType string, amount float64, date time.Time) {
	deps.store.transactions[id] = entity.Transaction{
		ID:        id,
		UserID:    userID,
		WalletID:  walletID,
		Type:      transactionType,
		Amount:    amount,
		Category:  "general",
		Date:      date,
		CreatedAt: date,
		UpdatedAt: date,
	}
}
