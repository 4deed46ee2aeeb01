package ledgerService

import (
	"ExpenseTracker/internal/api/ledger"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// CreateUpdateWallet creates a wallet with zeroed balance and totals, or
// merges name/image into an existing one. Balances and totals are never
// settable through this operation; only the ledger's own adjustment path
// writes them.
func (s *ledgerService) CreateUpdateWallet(ctx context.Context, userID, walletID string, req ledger.UpsertWalletRequest, image *multipart.FileHeader) (entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if walletID == "" && req.Name == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Wallet name missing")
		return entity.Wallet{}, ledger.ErrWalletNameRequired
	}

	imageURL, err := s.resolveImage(ctx, req.ImageURL, image, "wallets")
	if err != nil {
		return entity.Wallet{}, err
	}

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.Wallet{}, err
	}

	var wallet entity.Wallet
	if walletID == "" {
		id, err := s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate ULID")
			return entity.Wallet{}, err
		}

		wallet = entity.Wallet{
			ID:            id,
			UserID:        userID,
			Name:          req.Name,
			ImageURL:      imageURL,
			Amount:        0,
			TotalIncome:   0,
			TotalExpenses: 0,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := repo.Wallets.Create(ctx, wallet); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to create wallet")
			return entity.Wallet{}, ledger.ErrCreateWallet
		}
	} else {
		wallet, err = repo.Wallets.GetByID(ctx, walletID, userID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"wallet_id":  walletID,
				"error":      err.Error(),
			}).Error("Failed to get wallet")
			return entity.Wallet{}, err
		}

		if req.Name != "" {
			wallet.Name = req.Name
		}
		if imageURL != "" {
			wallet.ImageURL = imageURL
		}
		wallet.UpdatedAt = time.Now()

		if err := repo.Wallets.Update(ctx, wallet); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"wallet_id":  walletID,
				"error":      err.Error(),
			}).Error("Failed to update wallet")
			return entity.Wallet{}, ledger.ErrCreateWallet
		}
	}

	s.publishWallets(ctx, userID)

	return wallet, nil
}

// DeleteWallet removes the wallet together with all of its transactions in
// one database transaction, so no orphaned records survive.
func (s *ledgerService) DeleteWallet(ctx context.Context, userID, walletID string) error {
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

	wallet, err := repo.Wallets.GetByID(ctx, walletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  walletID,
			"error":      err.Error(),
		}).Error("Failed to get wallet")
		return err
	}

	if err := repo.Transactions.DeleteByWalletID(ctx, walletID, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  walletID,
			"error":      err.Error(),
		}).Error("Failed to delete wallet transactions")
		return err
	}

	if err := repo.Wallets.Delete(ctx, walletID, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  walletID,
			"error":      err.Error(),
		}).Error("Failed to delete wallet")
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
	s.removeStoredImage(ctx, wallet.ImageURL)

	return nil
}

func (s *ledgerService) GetWallets(ctx context.Context, userID string) ([]entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	wallets, err := repo.Wallets.GetByUserID(ctx, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to get wallets")
		return nil, err
	}

	for i := range wallets {
		wallets[i].ImageURL = s.presignedImage(ctx, wallets[i].ImageURL)
	}

	return wallets, nil
}

func (s *ledgerService) GetWalletByID(ctx context.Context, userID, walletID string) (entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.Wallet{}, err
	}

	wallet, err := repo.Wallets.GetByID(ctx, walletID, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"wallet_id":  walletID,
			"error":      err.Error(),
		}).Error("Failed to get wallet")
		return entity.Wallet{}, err
	}

	wallet.ImageURL = s.presignedImage(ctx, wallet.ImageURL)

	return wallet, nil
}

// SubscribeWallets returns the current wallet snapshot plus a channel that
// receives a fresh full snapshot after every matching change. The caller
// must invoke cancel when the consumer goes away.
func (s *ledgerService) SubscribeWallets(ctx context.Context, userID string) ([]entity.Wallet, <-chan []entity.Wallet, func(), error) {
	wallets, err := s.GetWallets(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	ch, cancel := s.feed.Subscribe(userID)
	return wallets, ch, cancel, nil
}

// publishWallets pushes a fresh snapshot without touching the stats cache;
// wallet metadata edits do not change any statistics.
func (s *ledgerService) publishWallets(ctx context.Context, userID string) {
	requestID := contextPkg.GetRequestID(ctx)

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
