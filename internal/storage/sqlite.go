package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// timestampLayout is fixed-width so that text order is chronological.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is the LedgerStore backed by a SQLite file. It holds a single
// connection, so writes to the same period serialize and the last commit wins.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

var _ LedgerStore = (*SQLiteStore)(nil)

// DSN returns the connection string used for path.
func DSN(path string) string {
	return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
}

// Open opens or creates the database at path and applies pending migrations.
func Open(path string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(path)
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.WithField(logging.FieldFile, path).Debug("Ledger database opened")
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// SetClock replaces the clock used for withdrawal timestamps.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ReplacePeriod(ctx context.Context, ledger models.Ledger) error {
	period := ledger.Period()
	if period.IsZero() {
		return &parsererror.ValidationError{Reason: "ledger has no period"}
	}
	key := period.String()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		manual, err := queryWithdrawals(ctx, tx, "WHERE month = ? AND source = ?", key, string(models.SourceManual))
		if err != nil {
			return err
		}

		for _, q := range []string{
			"DELETE FROM expenses WHERE month = ?",
			"DELETE FROM totals WHERE month = ?",
		} {
			if _, err := tx.ExecContext(ctx, q, key); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM withdrawals WHERE month = ? AND source = ?", key, string(models.SourceExcel)); err != nil {
			return err
		}

		totals := ledger.Totals
		totals.Shares = copyShares(totals.Shares)
		for _, w := range manual {
			totals.Shares[w.Person] = totals.Shares[w.Person].Sub(w.Amount)
		}
		if err := insertTotals(ctx, tx, totals); err != nil {
			return err
		}

		for i, line := range ledger.Expenses {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expenses (month, position, category, subcategory, amount) VALUES (?, ?, ?, ?, ?)",
				key, i, line.Category, line.Subcategory, line.Amount.String()); err != nil {
				return err
			}
		}

		stamp := s.now().UTC().Format(timestampLayout)
		for _, w := range ledger.Withdrawals {
			if !w.Person.TakesWithdrawals() {
				return fmt.Errorf("withdrawal attributed to %q", w.Person)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO withdrawals (month, person, amount, source, timestamp) VALUES (?, ?, ?, ?, ?)",
				key, string(w.Person), w.Amount.String(), string(models.SourceExcel), stamp); err != nil {
				return err
			}
		}

		s.logger.WithFields(
			logging.Field{Key: logging.FieldPeriod, Value: key},
			logging.Field{Key: logging.FieldCount, Value: len(ledger.Expenses)},
			logging.Field{Key: "manual_withdrawals", Value: len(manual)},
		).Debug("Period replaced")
		return nil
	})
	if err != nil {
		return &parsererror.StoreFailure{Op: "replace", Period: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) AdjustShare(ctx context.Context, period models.Period, person models.Partner, delta decimal.Decimal) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return adjustShare(ctx, tx, period, person, delta)
	})
	return wrapFailure("adjust share", period.String(), err)
}

func (s *SQLiteStore) AddManualWithdrawal(ctx context.Context, period models.Period, person models.Partner, amount decimal.Decimal) (models.Withdrawal, error) {
	if !person.TakesWithdrawals() {
		return models.Withdrawal{}, &parsererror.ValidationError{Reason: fmt.Sprintf("%q cannot take withdrawals", person)}
	}
	if !amount.IsPositive() {
		return models.Withdrawal{}, &parsererror.ValidationError{Reason: "withdrawal amount must be positive"}
	}

	w := models.Withdrawal{
		Period:    period,
		Person:    person,
		Amount:    amount,
		Source:    models.SourceManual,
		CreatedAt: s.now().UTC(),
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := adjustShare(ctx, tx, period, person, amount.Neg()); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO withdrawals (month, person, amount, source, timestamp) VALUES (?, ?, ?, ?, ?)",
			period.String(), string(person), amount.String(), string(models.SourceManual), w.CreatedAt.Format(timestampLayout))
		if err != nil {
			return err
		}
		w.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return models.Withdrawal{}, wrapFailure("add withdrawal", period.String(), err)
	}
	return w, nil
}

func (s *SQLiteStore) DeleteManualWithdrawal(ctx context.Context, id int64) (models.Withdrawal, error) {
	var deleted models.Withdrawal
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := queryWithdrawals(ctx, tx, "WHERE id = ? AND source = ?", id, string(models.SourceManual))
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return &parsererror.NotFoundError{Kind: "withdrawal", Key: strconv.FormatInt(id, 10)}
		}
		deleted = found[0]
		if err := adjustShare(ctx, tx, deleted.Period, deleted.Person, deleted.Amount); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM withdrawals WHERE id = ?", id)
		return err
	})
	if err != nil {
		return models.Withdrawal{}, wrapFailure("delete withdrawal", deleted.Period.String(), err)
	}
	return deleted, nil
}

func (s *SQLiteStore) GetPeriod(ctx context.Context, period models.Period) (models.Ledger, error) {
	var ledger models.Ledger
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ledger, err = readLedger(ctx, tx, period)
		return err
	})
	if err != nil {
		return models.Ledger{}, wrapFailure("get", period.String(), err)
	}
	return ledger, nil
}

func (s *SQLiteStore) ListPeriods(ctx context.Context) ([]models.Period, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT month FROM totals ORDER BY month DESC")
	if err != nil {
		return nil, wrapFailure("list", "", err)
	}
	defer func() { _ = rows.Close() }()

	var periods []models.Period
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, wrapFailure("list", "", err)
		}
		p, err := models.ParsePeriod(key)
		if err != nil {
			return nil, wrapFailure("list", key, err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapFailure("list", "", err)
	}
	return periods, nil
}

func (s *SQLiteStore) DeletePeriod(ctx context.Context, period models.Period) error {
	key := period.String()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM totals WHERE month = ?", key)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return &parsererror.NotFoundError{Kind: "period", Key: key}
		}
		for _, q := range []string{
			"DELETE FROM expenses WHERE month = ?",
			"DELETE FROM withdrawals WHERE month = ?",
		} {
			if _, err := tx.ExecContext(ctx, q, key); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapFailure("delete", key, err)
}

func (s *SQLiteStore) GetPeriodsRange(ctx context.Context, periods []models.Period) ([]models.Ledger, error) {
	var ledgers []models.Ledger
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range models.UniquePeriods(periods) {
			ledger, err := readLedger(ctx, tx, p)
			if errors.Is(err, parsererror.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			ledgers = append(ledgers, ledger)
		}
		return nil
	})
	if err != nil {
		return nil, wrapFailure("get range", "", err)
	}
	return ledgers, nil
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WithError(rbErr).Warn("Rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// wrapFailure leaves not-found and validation errors as they are and wraps
// everything else in a StoreFailure.
func wrapFailure(op, period string, err error) error {
	if err == nil {
		return nil
	}
	var notFound *parsererror.NotFoundError
	var invalid *parsererror.ValidationError
	if errors.As(err, &notFound) || errors.As(err, &invalid) {
		return err
	}
	return &parsererror.StoreFailure{Op: op, Period: period, Err: err}
}

func shareColumn(person models.Partner) (string, error) {
	for _, p := range models.Partners {
		if p == person {
			return p.ShareColumn(), nil
		}
	}
	return "", &parsererror.ValidationError{Reason: fmt.Sprintf("unknown partner %q", person)}
}

func adjustShare(ctx context.Context, tx *sql.Tx, period models.Period, person models.Partner, delta decimal.Decimal) error {
	col, err := shareColumn(person)
	if err != nil {
		return err
	}
	key := period.String()

	var current decimal.Decimal
	err = tx.QueryRowContext(ctx, "SELECT "+col+" FROM totals WHERE month = ?", key).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &parsererror.NotFoundError{Kind: "period", Key: key}
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "UPDATE totals SET "+col+" = ? WHERE month = ?", current.Add(delta).String(), key)
	return err
}

func insertTotals(ctx context.Context, tx *sql.Tx, t models.LedgerTotals) error {
	cols := []string{"month", "total_revenue", "total_expenses", "total_fees", "net_profit", "profit_margin"}
	args := []interface{}{
		t.Period.String(),
		t.TotalRevenue.String(),
		t.TotalExpenses.String(),
		t.TotalFees.String(),
		t.NetProfit.String(),
		t.ProfitMargin.String(),
	}
	for _, p := range models.Partners {
		cols = append(cols, p.ShareColumn())
		args = append(args, t.Share(p).String())
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	_, err := tx.ExecContext(ctx,
		"INSERT INTO totals ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")", args...)
	return err
}

func readLedger(ctx context.Context, tx *sql.Tx, period models.Period) (models.Ledger, error) {
	key := period.String()
	totals := models.LedgerTotals{Period: period, Shares: make(map[models.Partner]decimal.Decimal, len(models.Partners))}

	cols := "total_revenue, total_expenses, total_fees, net_profit, profit_margin"
	dest := []interface{}{&totals.TotalRevenue, &totals.TotalExpenses, &totals.TotalFees, &totals.NetProfit, &totals.ProfitMargin}
	shares := make([]decimal.Decimal, len(models.Partners))
	for i, p := range models.Partners {
		cols += ", " + p.ShareColumn()
		dest = append(dest, &shares[i])
	}

	err := tx.QueryRowContext(ctx, "SELECT "+cols+" FROM totals WHERE month = ?", key).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ledger{}, &parsererror.NotFoundError{Kind: "period", Key: key}
	}
	if err != nil {
		return models.Ledger{}, err
	}
	for i, p := range models.Partners {
		totals.Shares[p] = shares[i]
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT category, subcategory, amount FROM expenses WHERE month = ? ORDER BY position, id", key)
	if err != nil {
		return models.Ledger{}, err
	}
	defer func() { _ = rows.Close() }()

	var expenses []models.ExpenseLine
	for rows.Next() {
		line := models.ExpenseLine{Period: period}
		if err := rows.Scan(&line.Category, &line.Subcategory, &line.Amount); err != nil {
			return models.Ledger{}, err
		}
		expenses = append(expenses, line)
	}
	if err := rows.Err(); err != nil {
		return models.Ledger{}, err
	}

	withdrawals, err := queryWithdrawals(ctx, tx, "WHERE month = ?", key)
	if err != nil {
		return models.Ledger{}, err
	}

	return models.Ledger{Totals: totals, Expenses: expenses, Withdrawals: withdrawals}, nil
}

// queryWithdrawals returns matching withdrawals, newest first.
func queryWithdrawals(ctx context.Context, tx *sql.Tx, where string, args ...interface{}) ([]models.Withdrawal, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, month, person, amount, source, timestamp FROM withdrawals "+where+" ORDER BY timestamp DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Withdrawal
	for rows.Next() {
		var (
			w                     models.Withdrawal
			month, person, source string
			stamp                 string
		)
		if err := rows.Scan(&w.ID, &month, &person, &w.Amount, &source, &stamp); err != nil {
			return nil, err
		}
		if w.Period, err = models.ParsePeriod(month); err != nil {
			return nil, err
		}
		if w.Person, err = models.ParsePartner(person); err != nil {
			return nil, err
		}
		w.Source = models.WithdrawalSource(source)
		if w.CreatedAt, err = time.Parse(timestampLayout, stamp); err != nil {
			return nil, fmt.Errorf("withdrawal %d: bad timestamp %q: %w", w.ID, stamp, err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func copyShares(in map[models.Partner]decimal.Decimal) map[models.Partner]decimal.Decimal {
	out := make(map[models.Partner]decimal.Decimal, len(models.Partners))
	for _, p := range models.Partners {
		out[p] = in[p]
	}
	return out
}
