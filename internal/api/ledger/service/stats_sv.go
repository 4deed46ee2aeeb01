package ledgerService

import (
	"ExpenseTracker/internal/api/ledger"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/redis"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	statsCacheTTL = 5 * time.Minute
)

// GetPeriodStats buckets the user's transactions by day (last 7 days),
// month (last 12 months), or year (first transaction year through now) and
// sums income and expense per bucket. Every in-range transaction lands in
// exactly one bucket; empty buckets report zero. Results are cached until
// the next ledger mutation.
func (s *ledgerService) GetPeriodStats(ctx context.Context, userID, period string) (*ledger.PeriodStatsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if period != PeriodWeek && period != PeriodMonth && period != PeriodYear {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"period":     period,
		}).Warn("Invalid statistics period")
		return nil, ledger.ErrInvalidPeriod
	}

	if cached, err := s.cache.GetStats(ctx, userID, period); err == nil {
		var response ledger.PeriodStatsResponse
		if err := jsoniter.UnmarshalFromString(cached, &response); err == nil {
			return &response, nil
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"period":     period,
		}).Warn("Discarding undecodable stats cache entry")
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Stats cache read failed")
	}

	repo, err := s.ledgerRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, err
	}

	now := time.Now()
	from := rangeStart(period, now)

	transactions, err := repo.Transactions.GetByDateRange(ctx, userID, from, now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"period":     period,
			"error":      err.Error(),
		}).Error("Failed to get transactions for stats")
		return nil, err
	}

	var buckets []ledger.StatBucket
	switch period {
	case PeriodWeek:
		buckets = weekBuckets(now)
	case PeriodMonth:
		buckets = monthBuckets(now)
	case PeriodYear:
		buckets = yearBuckets(firstTransactionYear(transactions, now), now.Year())
	}

	fillBuckets(buckets, transactions, period)

	response := &ledger.PeriodStatsResponse{
		Period:       period,
		Buckets:      buckets,
		Transactions: transactions,
	}

	if payload, err := jsoniter.MarshalToString(response); err == nil {
		if err := s.cache.SetStats(ctx, userID, period, payload, statsCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Stats cache write failed")
		}
	}

	return response, nil
}

func rangeStart(period string, now time.Time) time.Time {
	switch period {
	case PeriodWeek:
		day := now.AddDate(0, 0, -6)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	case PeriodMonth:
		// Anchor to the first of the month before stepping back so
		// end-of-month dates cannot normalize into the wrong month.
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -11, 0)
	default:
		// Yearly stats span all history; the earliest year is derived from
		// the fetched transactions themselves.
		return time.Time{}
	}
}

// weekBuckets returns the last 7 days in chronological order, today last.
func weekBuckets(now time.Time) []ledger.StatBucket {
	buckets := make([]ledger.StatBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		buckets = append(buckets, ledger.StatBucket{
			Label: day.Format("Mon"),
			Date:  day.Format("2006-01-02"),
		})
	}
	return buckets
}

// monthBuckets returns the last 12 months in chronological order.
func monthBuckets(now time.Time) []ledger.StatBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	buckets := make([]ledger.StatBucket, 0, 12)
	for i := 11; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		buckets = append(buckets, ledger.StatBucket{
			Label: month.Format("Jan 06"),
			Date:  month.Format("2006-01"),
		})
	}
	return buckets
}

func yearBuckets(firstYear, currentYear int) []ledger.StatBucket {
	buckets := make([]ledger.StatBucket, 0, currentYear-firstYear+1)
	for year := firstYear; year <= currentYear; year++ {
		date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		buckets = append(buckets, ledger.StatBucket{
			Label: date.Format("2006"),
			Date:  date.Format("2006"),
		})
	}
	return buckets
}

func firstTransactionYear(transactions []entity.Transaction, now time.Time) int {
	first := now.Year()
	for _, transaction := range transactions {
		if year := transaction.Date.Year(); year < first {
			first = year
		}
	}
	return first
}

// fillBuckets attributes each transaction to the single bucket matching its
// date. Out-of-range transactions (possible for month buckets when the
// query window starts mid-month) are skipped.
func fillBuckets(buckets []ledger.StatBucket, transactions []entity.Transaction, period string) {
	index := make(map[string]int, len(buckets))
	for i, bucket := range buckets {
		index[bucket.Date] = i
	}

	var layout string
	switch period {
	case PeriodWeek:
		layout = "2006-01-02"
	case PeriodMonth:
		layout = "2006-01"
	default:
		layout = "2006"
	}

	for _, transaction := range transactions {
		i, ok := index[transaction.Date.Format(layout)]
		if !ok {
			continue
		}

		if transaction.Type == string(entity.TransactionTypeIncome) {
			buckets[i].Income += transaction.Amount
		} else {
			buckets[i].Expense += transaction.Amount
		}
	}
}
