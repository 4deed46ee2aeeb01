package ledgerService

import (
	"ExpenseTracker/internal/api/ledger"
	ledgerRepository "ExpenseTracker/internal/api/ledger/repository"
	"ExpenseTracker/internal/entity"
	"ExpenseTracker/pkg/livefeed"
	"ExpenseTracker/pkg/media"
	"ExpenseTracker/pkg/redis"
	"ExpenseTracker/pkg/utils"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ILedgerService interface {
	CreateOrUpdateTransaction(ctx context.Context, userID, transactionID string, req ledger.UpsertTransactionRequest, image *multipart.FileHeader) (entity.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID, walletID string) error
	GetTransactions(ctx context.Context, userID, search string, page, limit int) (*ledger.TransactionListResponse, error)
	CreateUpdateWallet(ctx context.Context, userID, walletID string, req ledger.UpsertWalletRequest, image *multipart.FileHeader) (entity.Wallet, error)
	DeleteWallet(ctx context.Context, userID, walletID string) error
	GetWallets(ctx context.Context, userID string) ([]entity.Wallet, error)
	GetWalletByID(ctx context.Context, userID, walletID string) (entity.Wallet, error)
	GetPeriodStats(ctx context.Context, userID, period string) (*ledger.PeriodStatsResponse, error)
	SubscribeWallets(ctx context.Context, userID string) ([]entity.Wallet, <-chan []entity.Wallet, func(), error)
}

type ledgerService struct {
	log              *logrus.Logger
	ledgerRepository ledgerRepository.Repository
	media            media.ItfMedia
	cache            redis.IRedis
	feed             livefeed.IFeed
	utils            utils.IUtils
}

func NewLedgerService(
	log *logrus.Logger,
	lr ledgerRepository.Repository,
	md media.ItfMedia,
	cache redis.IRedis,
	feed livefeed.IFeed,
	utils utils.IUtils,
) ILedgerService {
	return &ledgerService{
		log:              log,
		ledgerRepository: lr,
		media:            md,
		cache:            cache,
		feed:             feed,
		utils:            utils,
	}
}
