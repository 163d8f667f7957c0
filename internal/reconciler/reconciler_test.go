package reconciler

import (
	"testing"

	"contajur/ledger/internal/locator"
	"contajur/ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func located(revenue, expenses string) locator.Located {
	return locator.Located{
		Period:   models.MustParsePeriod("2025-07"),
		Strategy: locator.StrategyMarker,
		Revenue:  d(revenue),
		Expenses: d(expenses),
	}
}

func expense(desc, category, amount string) models.ClassifiedRow {
	return models.ClassifiedRow{
		ItemRow:        models.ItemRow{Description: desc},
		Amount:         d(amount),
		Classification: models.Classification{Kind: models.RowExpense, Category: category},
	}
}

func withdrawal(p models.Partner, amount string) models.ClassifiedRow {
	return models.ClassifiedRow{
		ItemRow:        models.ItemRow{Description: "Retirada " + string(p)},
		Amount:         d(amount),
		Classification: models.Classification{Kind: models.RowWithdrawal, Person: p},
	}
}

func fee(desc, amount, category string) models.ClassifiedRow {
	return models.ClassifiedRow{
		ItemRow:        models.ItemRow{Description: desc},
		Amount:         d(amount),
		Classification: models.Classification{Kind: models.RowFee, Category: category},
	}
}

func TestReconcile_EqualShares(t *testing.T) {
	res, err := Reconcile(located("50000", "30000"), nil, DefaultPolicy())
	require.NoError(t, err)

	totals := res.Ledger.Totals
	assert.Equal(t, "2025-07", totals.Period.String())
	assert.Equal(t, "20000", totals.NetProfit.String())
	assert.Equal(t, "40", totals.ProfitMargin.String())
	for _, p := range models.Partners {
		assert.Equal(t, "5000", totals.Share(p).String(), string(p))
	}
}

func TestReconcile_WithdrawalReducesOwnShareOnly(t *testing.T) {
	policy := Policy{SubtractEmbeddedWithdrawals: false, AbsoluteAmounts: true}
	res, err := Reconcile(located("50000", "30000"), []models.ClassifiedRow{withdrawal(models.PartnerLucas, "1000")}, policy)
	require.NoError(t, err)

	totals := res.Ledger.Totals
	assert.Equal(t, "20000", totals.NetProfit.String())
	assert.Equal(t, "4000", totals.Share(models.PartnerLucas).String())
	assert.Equal(t, "5000", totals.Share(models.PartnerThiago).String())
	assert.Equal(t, "5000", totals.Share(models.PartnerRonaldo).String())
	assert.Equal(t, "5000", totals.Share(models.PartnerReserva).String())

	require.Len(t, res.Ledger.Withdrawals, 1)
	w := res.Ledger.Withdrawals[0]
	assert.Equal(t, models.PartnerLucas, w.Person)
	assert.Equal(t, models.SourceExcel, w.Source)
	assert.Equal(t, "1000", w.Amount.String())
}

func TestReconcile_SubtractEmbeddedWithdrawals(t *testing.T) {
	rows := []models.ClassifiedRow{withdrawal(models.PartnerThiago, "2000")}

	res, err := Reconcile(located("50000", "32000"), rows, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "30000", res.Ledger.Totals.TotalExpenses.String())
	assert.Equal(t, "20000", res.Ledger.Totals.NetProfit.String())
	assert.Equal(t, "3000", res.Ledger.Totals.Share(models.PartnerThiago).String())

	res, err = Reconcile(located("50000", "32000"), rows, Policy{AbsoluteAmounts: true})
	require.NoError(t, err)
	assert.Equal(t, "32000", res.Ledger.Totals.TotalExpenses.String())
	assert.Equal(t, "18000", res.Ledger.Totals.NetProfit.String())
}

func TestReconcile_MarginZeroWithoutRevenue(t *testing.T) {
	for _, rev := range []string{"0", "-100"} {
		for _, exp := range []string{"0", "500", "-20"} {
			res, err := Reconcile(located(rev, exp), nil, DefaultPolicy())
			require.NoError(t, err)
			assert.True(t, res.Ledger.Totals.ProfitMargin.IsZero(), "revenue %s expenses %s", rev, exp)
		}
	}
}

func TestReconcile_SharesSumToNetProfit(t *testing.T) {
	cases := [][2]string{
		{"50000", "30000"},
		{"12345.67", "1000.01"},
		{"1", "0.99"},
		{"100000", "33333.33"},
	}
	for _, c := range cases {
		res, err := Reconcile(located(c[0], c[1]), nil, DefaultPolicy())
		require.NoError(t, err)
		totals := res.Ledger.Totals
		assert.True(t, totals.SharesSum().Equal(totals.NetProfit), "%s - %s", c[0], c[1])
	}
}

func TestReconcile_LinesAndFees(t *testing.T) {
	rows := []models.ClassifiedRow{
		expense("Aluguel", "Despesas de Escritório", "2000"),
		expense("Luz", "Despesas de Escritório", "-350.20"),
		expense("Internet", "Despesas de Escritório", "0"),
		fee("Honorarios", "1500", ""),
		fee("Honorarios CEI", "500", ""),
		{ItemRow: models.ItemRow{Description: "Miscellaneous XYZ"}, Amount: d("99")},
	}

	res, err := Reconcile(located("50000", "30000"), rows, DefaultPolicy())
	require.NoError(t, err)

	require.Len(t, res.Ledger.Expenses, 2)
	assert.Equal(t, "Aluguel", res.Ledger.Expenses[0].Subcategory)
	assert.Equal(t, "350.2", res.Ledger.Expenses[1].Amount.String())
	assert.Equal(t, "2000", res.Ledger.Totals.TotalFees.String())
	assert.Len(t, res.Dropped, 2)

	for _, line := range res.Ledger.Expenses {
		assert.True(t, line.Amount.IsPositive())
		assert.NotEqual(t, "Miscellaneous XYZ", line.Subcategory)
	}
}

func TestReconcile_NegativeAmountsWithoutAbsolutePolicy(t *testing.T) {
	rows := []models.ClassifiedRow{
		expense("Aluguel", "Despesas de Escritório", "2000"),
		expense("Estorno", "Despesas de Escritório", "-100"),
	}
	res, err := Reconcile(located("1000", "0"), rows, Policy{})
	require.NoError(t, err)
	require.Len(t, res.Ledger.Expenses, 1)
	assert.Len(t, res.Dropped, 1)
}

func TestReconcile_FeeFiledAsExpense(t *testing.T) {
	res, err := Reconcile(located("1000", "0"), []models.ClassifiedRow{fee("Honorarios", "300", "Honorários")}, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Ledger.Expenses, 1)
	assert.Equal(t, "Honorários", res.Ledger.Expenses[0].Category)
	assert.Equal(t, "300", res.Ledger.Totals.TotalFees.String())
}

func TestReconcile_Errors(t *testing.T) {
	_, err := Reconcile(locator.Located{}, nil, DefaultPolicy())
	assert.Error(t, err)

	_, err = Reconcile(located("1", "0"), []models.ClassifiedRow{withdrawal(models.PartnerReserva, "10")}, DefaultPolicy())
	assert.Error(t, err)
}

func TestMargin(t *testing.T) {
	assert.Equal(t, "33.3333", Margin(d("1"), d("3")).String())
	assert.Equal(t, "-50", Margin(d("-50"), d("100")).String())
	assert.True(t, Margin(d("10"), d("0")).IsZero())
}
