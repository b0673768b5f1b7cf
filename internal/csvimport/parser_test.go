package csvimport

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	p := NewParser("checking")
	n := 0
	p.NewID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	return p
}

func TestParseFile_AmountColumn(t *testing.T) {
	input := `Date,Description,Amount
2024-01-15,WALMART #1234,-52.10
01/16/2024,"PAYROLL, ACME INC",2500.00
2024-01-17,AMAZON.COM*AB12CD,"$1,024.99"
`
	txns, err := newTestParser().ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "gen-1", txns[0].ID)
	assert.Equal(t, "WALMART #1234", txns[0].Description)
	assert.Equal(t, -52.10, txns[0].Amount)
	assert.Equal(t, "checking", txns[0].AccountID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, txns[0].GenerateHash(), txns[0].Hash)

	assert.Equal(t, "PAYROLL, ACME INC", txns[1].Description)
	assert.Equal(t, 2500.0, txns[1].Amount)
	assert.Equal(t, 1024.99, txns[2].Amount)
}

func TestParseFile_DebitCreditColumns(t *testing.T) {
	input := `Transaction ID,Posted Date,Payee,Debit,Credit
T1,2024-02-01,SHELL OIL 57444,45.00,
T2,2024-02-02,INTEREST PAYMENT,,1.25
`
	txns, err := newTestParser().ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "T1", txns[0].ID)
	assert.Equal(t, -45.0, txns[0].Amount)
	assert.Equal(t, "T2", txns[1].ID)
	assert.Equal(t, 1.25, txns[1].Amount)
}

func TestParseFile_SkipsBadRows(t *testing.T) {
	input := `date,description,amount
not-a-date,COFFEE,-3.00
2024-03-01,,-3.00
2024-03-02,TEA,abc
2024-03-03,BAGEL,-2.50
`
	txns, err := newTestParser().ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "BAGEL", txns[0].Description)
}

func TestParseFile_Errors(t *testing.T) {
	_, err := newTestParser().ParseFile(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, common.ErrNoTransactions)

	_, err = newTestParser().ParseFile(context.Background(), strings.NewReader("date,amount\n2024-01-01,1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = newTestParser().ParseFile(context.Background(), strings.NewReader("date,description\n2024-01-01,x\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseFile_DefaultIDsAreUnique(t *testing.T) {
	input := "date,description,amount\n2024-01-01,A,-1\n2024-01-02,B,-2\n"
	txns, err := NewParser("").ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.NotEmpty(t, txns[0].ID)
	assert.NotEqual(t, txns[0].ID, txns[1].ID)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12.34", want: 12.34},
		{input: "-12.34", want: -12.34},
		{input: "$1,234.56", want: 1234.56},
		{input: "(45.00)", want: -45},
		{input: " 7 ", want: 7},
		{input: "", wantErr: true},
		{input: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
