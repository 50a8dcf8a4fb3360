package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paperwork/books"
	"github.com/warp/paperwork/store/sqlite"
)

func seedInvoices(t *testing.T, dbPath string, invoices ...books.Invoice) {
	t.Helper()
	st, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	for _, inv := range invoices {
		_, err := st.AddInvoice(context.Background(), inv)
		require.NoError(t, err)
	}
}

func invoice(creditor, amount, due string) books.Invoice {
	return books.Invoice{
		Creditor: creditor, Concern: "Home", Category: "Bills",
		Amount: decimal.RequireFromString(amount), DueDate: due, Status: books.StatusOpen,
	}
}

func TestInvoicesList_MarksOverdue(t *testing.T) {
	env := newCLIEnv(t, "")
	seedInvoices(t, env.dbPath,
		invoice("EDF", "120.5", "2019-12-31"),
		invoice("Orange", "30", "2020-01-02"),
	)

	out, err := env.run(t, "invoices", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "EDF")
	assert.Contains(t, lines[1], "120.50")
	assert.Contains(t, lines[1], "Overdue")
	assert.Contains(t, lines[2], "Open")

	// The transition was saved.
	out, err = env.run(t, "invoices", "list", "--status", "Overdue")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestInvoicesList_BadDueDate(t *testing.T) {
	env := newCLIEnv(t, "")
	seedInvoices(t, env.dbPath, invoice("EDF", "1", "not-a-date"))

	_, err := env.run(t, "invoices", "list")
	require.Error(t, err)
	assert.True(t, books.IsValidation(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestInvoicesPay(t *testing.T) {
	env := newCLIEnv(t, "")
	seedInvoices(t, env.dbPath, invoice("EDF", "10", "2019-06-01"))

	out, err := env.run(t, "invoices", "pay", "1")
	require.NoError(t, err)
	assert.Equal(t, "invoice 1 paid\n", out)

	out, err = env.run(t, "invoices", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paid")
	assert.Contains(t, out, "2020-01-01")
}

func TestInvoicesPay_InvalidID(t *testing.T) {
	env := newCLIEnv(t, "")

	_, err := env.run(t, "invoices", "pay", "first")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExportInvoices_ToFile(t *testing.T) {
	env := newCLIEnv(t, "")
	seedInvoices(t, env.dbPath,
		invoice("EDF", "10", "2020-03-01"),
		invoice("Orange", "20", "2020-04-01"),
	)
	outPath := filepath.Join(t.TempDir(), "march.csv")

	_, err := env.run(t, "export", "invoices", "--month", "2020-03", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"id,creditor,concern,category,amount,due_date,path,description,status,payment_date\n"+
			"1,EDF,Home,Bills,10,2020-03-01,,,Open,\n",
		string(data))
}
