package ledgerRepository

import (
	"ExpenseTracker/internal/api/ledger"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type WalletDB struct {
	ID            sql.NullString  `db:"id"`
	UserID        sql.NullString  `db:"user_id"`
	Name          sql.NullString  `db:"name"`
	ImageURL      sql.NullString  `db:"image_url"`
	Amount        sql.NullFloat64 `db:"amount"`
	TotalIncome   sql.NullFloat64 `db:"total_income"`
	TotalExpenses sql.NullFloat64 `db:"total_expenses"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r *walletRepository) Create(ctx context.Context, wallet entity.Wallet) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":             wallet.ID,
		"user_id":        wallet.UserID,
		"name":           wallet.Name,
		"image_url":      wallet.ImageURL,
		"amount":         wallet.Amount,
		"total_income":   wallet.TotalIncome,
		"total_expenses": wallet.TotalExpenses,
		"created_at":     wallet.CreatedAt,
		"updated_at":     wallet.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateWallet, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateWallet")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating wallet")
		return err
	}

	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id, userID string) (entity.Wallet, error) {
	return r.getByID(ctx, queryGetWalletByID, id, userID)
}

func (r *walletRepository) GetByIDForUpdate(ctx context.Context, id, userID string) (entity.Wallet, error) {
	return r.getByID(ctx, queryGetWalletByIDForUpdate, id, userID)
}

func (r *walletRepository) getByID(ctx context.Context, baseQuery, id, userID string) (entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var wallet WalletDB

	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
	}

	query, args, err := sqlx.Named(baseQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWalletByID named query preparation err")
		return entity.Wallet{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&wallet); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"wallet_id":  id,
			}).Warn("GetWalletByID no rows found")
			return entity.Wallet{}, ledger.ErrWalletNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWalletByID execution err")

		return entity.Wallet{}, err
	}

	return r.makeWallet(wallet), nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var wallets []WalletDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetWalletsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWalletsByUserID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &wallets, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetWalletsByUserID execution err")
		return nil, err
	}

	result := make([]entity.Wallet, 0, len(wallets))
	for _, wallet := range wallets {
		result = append(result, r.makeWallet(wallet))
	}

	return result, nil
}

func (r *walletRepository) Update(ctx context.Context, wallet entity.Wallet) error {
	argsKV := map[string]interface{}{
		"id":         wallet.ID,
		"user_id":    wallet.UserID,
		"name":       wallet.Name,
		"image_url":  wallet.ImageURL,
		"updated_at": time.Now(),
	}

	return r.execExpectingRow(ctx, queryUpdateWallet, argsKV, "UpdateWallet")
}

func (r *walletRepository) UpdateBalances(ctx context.Context, id, userID string, amount, totalIncome, totalExpenses float64) error {
	argsKV := map[string]interface{}{
		"id":             id,
		"user_id":        userID,
		"amount":         amount,
		"total_income":   totalIncome,
		"total_expenses": totalExpenses,
		"updated_at":     time.Now(),
	}

	return r.execExpectingRow(ctx, queryUpdateWalletBalances, argsKV, "UpdateWalletBalances")
}

func (r *walletRepository) Delete(ctx context.Context, id, userID string) error {
	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
	}

	return r.execExpectingRow(ctx, queryDeleteWallet, argsKV, "DeleteWallet")
}

func (r *walletRepository) execExpectingRow(ctx context.Context, baseQuery string, argsKV map[string]interface{}, operation string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(baseQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn(operation + " no rows affected")
		return ledger.ErrWalletNotFound
	}

	return nil
}

func (r *walletRepository) makeWallet(wallet WalletDB) entity.Wallet {
	return entity.Wallet{
		ID:            wallet.ID.String,
		UserID:        wallet.UserID.String,
		Name:          wallet.Name.String,
		ImageURL:      wallet.ImageURL.String,
		Amount:        wallet.Amount.Float64,
		TotalIncome:   wallet.TotalIncome.Float64,
		TotalExpenses: wallet.TotalExpenses.Float64,
		CreatedAt:     wallet.CreatedAt,
		UpdatedAt:     wallet.UpdatedAt,
	}
}
