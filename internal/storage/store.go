// Package storage persists ledgers keyed by period.
package storage

import (
	"context"

	"contajur/ledger/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerStore is the month-keyed persistence the import pipeline and the
// reports rely on. Every write is atomic.
type LedgerStore interface {
	// ReplacePeriod stores the ledger of a period, discarding what a previous
	// import of the same period stored. Manual withdrawals are kept and
	// applied again to the new shares.
	ReplacePeriod(ctx context.Context, ledger models.Ledger) error

	// AdjustShare adds delta to the stored share of person.
	AdjustShare(ctx context.Context, period models.Period, person models.Partner, delta decimal.Decimal) error

	AddManualWithdrawal(ctx context.Context, period models.Period, person models.Partner, amount decimal.Decimal) (models.Withdrawal, error)
	DeleteManualWithdrawal(ctx context.Context, id int64) (models.Withdrawal, error)

	GetPeriod(ctx context.Context, period models.Period) (models.Ledger, error)
	// ListPeriods returns the stored periods, newest first.
	ListPeriods(ctx context.Context) ([]models.Period, error)
	DeletePeriod(ctx context.Context, period models.Period) error
	// GetPeriodsRange returns the ledgers of the stored periods among
	// periods, oldest first. Missing periods are skipped.
	GetPeriodsRange(ctx context.Context, periods []models.Period) ([]models.Ledger, error)

	Close() error
}
