package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against the database at dbPath.
func runCLI(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, filepath.Join(t.TempDir(), "test.db"), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "spendwise dev")
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	t.Cleanup(viper.Reset)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"import", "categorize", "transactions", "categories", "income", "onboard", "dashboard", "sample", "version"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestSampleCategorizeDashboard(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spendwise.db")

	out, err := runCLI(t, dbPath, "", "sample", "load")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 24 sample transactions")

	out, err = runCLI(t, dbPath, "", "sample", "load")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 0 sample transactions")

	out, err = runCLI(t, dbPath, "", "categorize", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Categorization Complete")
	assert.Contains(t, out, "Credit card payments skipped: 1")

	out, err = runCLI(t, dbPath, "", "transactions", "list", "--category", "salary")
	require.NoError(t, err)
	assert.Contains(t, out, "ACME CORP PAYROLL")

	out, err = runCLI(t, dbPath, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Dashboard (all time)")
	assert.Contains(t, out, "sample transactions included")

	out, err = runCLI(t, dbPath, "", "sample", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 24 sample transactions")
}

func TestImportCSVAndAssign(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "spendwise.db")
	csvPath := filepath.Join(dir, "checking.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Date,Description,Amount,ID\n"+
			"2024-01-02,LOCAL BAKERY 1234,-8.50,b1\n"+
			"2024-01-09,LOCAL BAKERY 5678,-9.25,b2\n"), 0o600))

	out, err := runCLI(t, dbPath, "", "import", "--account", "checking", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 new transactions")

	out, err = runCLI(t, dbPath, "", "import", "--account", "checking", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 new transactions (2 already present)")

	_, err = runCLI(t, dbPath, "", "transactions", "assign", "b1", "dining")
	require.NoError(t, err)

	out, err = runCLI(t, dbPath, "", "categorize", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto-categorized: 1")
}

func TestImport_NoFiles(t *testing.T) {
	_, err := runCLI(t, filepath.Join(t.TempDir(), "x.db"), "", "import", filepath.Join(t.TempDir(), "*.ofx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
}

func TestCategoriesCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spendwise.db")

	out, err := runCLI(t, dbPath, "", "categories", "add", "Pet Care", "--keywords", "petco,vet", "--budget", "75")
	require.NoError(t, err)
	assert.Contains(t, out, "pet-care")

	_, err = runCLI(t, dbPath, "", "categories", "add", "Pet Care")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = runCLI(t, dbPath, "", "categories", "keyword", "pet-care", "chewy")
	require.NoError(t, err)

	out, err = runCLI(t, dbPath, "", "categories", "budget", "pet-care", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared budget")

	out, err = runCLI(t, dbPath, "", "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "chewy")

	_, err = runCLI(t, dbPath, "", "categories", "delete", "pet-care")
	require.NoError(t, err)

	_, err = runCLI(t, dbPath, "", "categories", "delete", "pet-care")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestIncomeCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spendwise.db")

	out, err := runCLI(t, dbPath, "", "income", "add", "Job", "2000", "biweekly")
	require.NoError(t, err)
	assert.Contains(t, out, "$52,000.00/year")

	_, err = runCLI(t, dbPath, "", "income", "add", "Freelance", "500", "monthly")
	require.NoError(t, err)

	_, err = runCLI(t, dbPath, "", "income", "add", "--", "", "-5", "daily")
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), "Income source name is required")
	assert.Contains(t, common.UserMessage(err), "Amount must be a positive number")
	assert.Contains(t, common.UserMessage(err), "Please select a valid frequency")

	out, err = runCLI(t, dbPath, "", "income", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary: Job (90%)")

	_, err = runCLI(t, dbPath, "", "income", "remove", "freelance")
	require.NoError(t, err)

	out, err = runCLI(t, dbPath, "", "income", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Freelance")

	_, err = runCLI(t, dbPath, "", "income", "remove", "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestIncomeConvert(t *testing.T) {
	out, err := runCLI(t, filepath.Join(t.TempDir(), "x.db"), "", "income", "convert", "2000", "--from", "Bi-weekly", "--to", "monthly")
	require.NoError(t, err)
	assert.Contains(t, out, "$4,333.33 Monthly")

	_, err = runCLI(t, filepath.Join(t.TempDir(), "x.db"), "", "income", "convert", "10", "--from", "hourly")
	assert.Error(t, err)
}

func TestOnboard(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spendwise.db")
	answers := strings.Join([]string{
		"Sam",     // name
		"Job",     // income name
		"4000",    // amount
		"3",       // Monthly
		"n",       // another income
		"y",       // add expense
		"Rent",    // expense name
		"1500",    // amount
		"",        // default Monthly
		"n",       // another expense
		"500",     // savings goal
		"$10,000", // assets
		"2500",    // liabilities
	}, "\n") + "\n"

	out, err := runCLI(t, dbPath, answers, "onboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile saved")
	assert.Contains(t, out, "net worth $7,500.00")

	out, err = runCLI(t, dbPath, "", "income", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "$48,000.00")
}

func TestRunOnboarding_RetriesInvalidIncome(t *testing.T) {
	answers := strings.Join([]string{
		"",    // no name
		"",    // blank income name
		"100", // amount
		"1",   // Weekly
		"Job", // retry
		"100", // amount
		"1",   // Weekly
		"n",   // another income
		"n",   // no expenses
		"0", "0", "0",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	profile, err := runOnboarding(context.Background(), newTestPrompter(answers, out), out, nil, now)
	require.NoError(t, err)

	require.Len(t, profile.IncomeSources, 1)
	assert.Equal(t, model.IncomeSource{Name: "Job", Amount: 100, Frequency: model.FrequencyWeekly}, profile.IncomeSources[0])
	assert.Empty(t, profile.Expenses)
	assert.Equal(t, now, profile.OnboardedAt)
	assert.Contains(t, out.String(), "Income source name is required")
}

func TestRunOnboarding_RejectsNonFiniteAmounts(t *testing.T) {
	answers := strings.Join([]string{
		"Ann",
		"Job",
		"5000",
		"Monthly",
		"n",   // another income
		"n",   // no expenses
		"nan", // savings goal
		"750",
		"inf", // assets
		"0",
		"0",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	profile, err := runOnboarding(context.Background(), newTestPrompter(answers, out), out, nil, now)
	require.NoError(t, err)

	assert.InDelta(t, 750.0, profile.MonthlySavingsGoal, 0.001)
	assert.Zero(t, profile.Assets)
	assert.Zero(t, profile.Liabilities)
	assert.Contains(t, out.String(), "Please enter a number")

	_, err = json.Marshal(profile)
	require.NoError(t, err)
}

func TestDedupeByHash(t *testing.T) {
	a := model.Transaction{ID: "1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Description: "X", Amount: -1, AccountID: "acc"}
	b := a
	b.ID = "2"
	c := a
	c.Description = "Y"

	txns, dups := dedupeByHash([]fileResult{
		{path: "one.csv", transactions: []model.Transaction{a}},
		{path: "two.csv", transactions: []model.Transaction{b, c}},
	})

	require.Len(t, txns, 2)
	assert.Equal(t, 1, dups)
	assert.Equal(t, "1", txns[0].ID)
	assert.NotEmpty(t, txns[0].Hash)
}

func TestParserFor(t *testing.T) {
	assert.NotNil(t, parserFor("bank.QFX", ""))
	assert.NotNil(t, parserFor("bank.ofx", ""))
	assert.NotNil(t, parserFor("bank.csv", "checking"))
	assert.Nil(t, parserFor("bank.pdf", ""))
}

func TestCanonicalFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected model.Frequency
	}{
		{"weekly", model.FrequencyWeekly},
		{"biweekly", model.FrequencyBiWeekly},
		{"Bi-Weekly", model.FrequencyBiWeekly},
		{"one-time", model.FrequencyOneTime},
		{"onetime", model.FrequencyOneTime},
		{"daily", model.Frequency("daily")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, canonicalFrequency(tt.input))
		})
	}
}

func TestParseDateFlag(t *testing.T) {
	start, err := parseDateFlag("2024-03-05", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), start)

	end, err := parseDateFlag("2024-03-05", true)
	require.NoError(t, err)
	assert.Equal(t, 5, end.Day())
	assert.Equal(t, 23, end.Hour())

	zero, err := parseDateFlag("", false)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = parseDateFlag("03/05/2024", false)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "dining-out", slugify("Dining Out"))
	assert.Equal(t, "kids-school", slugify("  Kids & School! "))
}

func newTestPrompter(input string, out *bytes.Buffer) *cli.LinePrompter {
	return cli.NewLinePrompter(strings.NewReader(input), out)
}

// bankStatementOFX is a one-account checking statement with three debits.
const bankStatementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFX(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "spendwise.db")
	ofxPath := filepath.Join(dir, "checking.qfx")
	require.NoError(t, os.WriteFile(ofxPath, []byte(bankStatementOFX), 0o600))

	out, err := runCLI(t, dbPath, "", "import", "--list-accounts", ofxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "checking.qfx: 1234567890")

	out, err = runCLI(t, dbPath, "", "import", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run: 3 transactions parsed")

	out, err = runCLI(t, dbPath, "", "import", ofxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 new transactions")

	out, err = runCLI(t, dbPath, "", "transactions", "list", "--start", "2024-01-16", "--end", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Whole Foods Market")
	assert.NotContains(t, out, "STARBUCKS")
}
