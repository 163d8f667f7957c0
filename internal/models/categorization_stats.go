package models

import (
	"contajur/ledger/internal/logging"
)

// CategorizationStats tracks how the rows of one sheet were classified.
type CategorizationStats struct {
	Total         int
	Expenses      int
	Fees          int
	Withdrawals   int
	Uncategorized int
}

// Record counts one classification.
func (cs *CategorizationStats) Record(kind RowKind) {
	cs.Total++
	switch kind {
	case RowExpense:
		cs.Expenses++
	case RowFee:
		cs.Fees++
	case RowWithdrawal:
		cs.Withdrawals++
	default:
		cs.Uncategorized++
	}
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger, period Period) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldPeriod, Value: period.String()},
		logging.Field{Key: "total_rows", Value: cs.Total},
		logging.Field{Key: "expenses", Value: cs.Expenses},
		logging.Field{Key: "fees", Value: cs.Fees},
		logging.Field{Key: "withdrawals", Value: cs.Withdrawals},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "match_rate", Value: cs.GetMatchRate()},
	)
}

// GetMatchRate is the share of rows that landed in a known bucket, in percent.
func (cs CategorizationStats) GetMatchRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Total-cs.Uncategorized) / float64(cs.Total) * 100.0
}
