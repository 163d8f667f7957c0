package withdraw_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contajur/ledger/cmd/withdraw"
	"contajur/ledger/internal/config"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxonomyYAML = `
revision: "2025"
categories:
  - name: Aluguel
    labels: [Aluguel]
  - name: Impostos
    labels: [ISS]
fees:
  prefix: honorario
withdrawals:
  - person: Lucas
    labels: [Retirada Lucas]
`

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	prevWD, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile("categories.yaml", []byte(taxonomyYAML), 0600))
	t.Setenv("CONTAJUR_DATABASE_PATH", filepath.Join(dir, "ledger.db"))

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func report(header string) string {
	line := func(cells map[int]string) string {
		out := make([]string, 13)
		for i, v := range cells {
			out[i] = v
		}
		return strings.Join(out, ";")
	}
	return strings.Join([]string{
		line(map[int]string{0: header}),
		line(map[int]string{0: "Descrição", 1: "Total"}),
		line(map[int]string{0: "Aluguel", 1: "2.000,00"}),
		line(map[int]string{0: "ISS", 1: "150,50"}),
		line(map[int]string{0: "Material de escritório", 1: "80,00"}),
		line(map[int]string{10: "Receitas:", 11: "10.000,00"}),
		line(map[int]string{10: "Despesas:", 11: "2.150,50"}),
	}, "\n")
}

func seed(t *testing.T, c *container.Container, header string) {
	t.Helper()
	_, err := c.GetImporter().Import(context.Background(), strings.NewReader(report(header)), "relatorio.csv")
	require.NoError(t, err)
}

func TestWithdrawCommand_Metadata(t *testing.T) {
	assert.Equal(t, "withdraw", withdraw.Cmd.Use)
	names := []string{}
	for _, sub := range withdraw.Cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"add", "delete", "import"}, names)
	assert.NotNil(t, withdraw.AddCmd.Flags().Lookup("person"))
	assert.NotNil(t, withdraw.DeleteCmd.Flags().Lookup("id"))
	assert.Equal(t, "i", withdraw.ImportCmd.Flags().Lookup("input").Shorthand)
}

func TestAddAndDelete(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/07/2025 à 31/07/2025")
	ctx := context.Background()
	july := models.MustParsePeriod("2025-07")

	before, err := c.GetLedgerStore().GetPeriod(ctx, july)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, withdraw.Add(ctx, c, "2025-07", "lucas", "1.000,00", &out))
	assert.Contains(t, out.String(), "Registered withdrawal #")
	assert.Contains(t, out.String(), "Lucas 1000.00 in 2025-07")

	after, err := c.GetLedgerStore().GetPeriod(ctx, july)
	require.NoError(t, err)
	require.Len(t, after.Withdrawals, 1)
	assert.True(t, after.Totals.Share(models.PartnerLucas).Equal(before.Totals.Share(models.PartnerLucas).Sub(after.Withdrawals[0].Amount)))

	out.Reset()
	require.NoError(t, withdraw.Delete(ctx, c, after.Withdrawals[0].ID, &out))
	assert.Contains(t, out.String(), "Deleted withdrawal #")

	restored, err := c.GetLedgerStore().GetPeriod(ctx, july)
	require.NoError(t, err)
	assert.Empty(t, restored.Withdrawals)
	assert.True(t, restored.Totals.Share(models.PartnerLucas).Equal(before.Totals.Share(models.PartnerLucas)))
}

func TestAdd_Rejected(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/07/2025 à 31/07/2025")

	tests := []struct {
		name   string
		period string
		person string
		amount string
	}{
		{name: "reserve", period: "2025-07", person: "Reserva", amount: "10,00"},
		{name: "zero amount", period: "2025-07", person: "Thiago", amount: "0"},
		{name: "malformed period", period: "julho", person: "Thiago", amount: "10,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, withdraw.Add(context.Background(), c, tt.period, tt.person, tt.amount, &bytes.Buffer{}))
		})
	}
}

func TestDelete_Unknown(t *testing.T) {
	c := newContainer(t)

	err := withdraw.Delete(context.Background(), c, 99, &bytes.Buffer{})
	var notFound *parsererror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestImport(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/07/2025 à 31/07/2025")
	path := filepath.Join(t.TempDir(), "retiradas.csv")
	require.NoError(t, os.WriteFile(path, []byte("period,person,amount\n2025-07,Thiago,500.00\n2025-07,Ronaldo,250.00\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, withdraw.Import(context.Background(), c, path, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "Registered withdrawal"))
}
