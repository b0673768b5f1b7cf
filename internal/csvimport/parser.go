// Package csvimport imports transactions from bank CSV exports.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/google/uuid"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
	"02.01.2006",
}

// Header aliases, lowercased.
var (
	dateHeaders        = []string{"date", "posted date", "posting date", "transaction date"}
	descriptionHeaders = []string{"description", "name", "payee", "merchant", "details"}
	amountHeaders      = []string{"amount", "transaction amount"}
	debitHeaders       = []string{"debit", "withdrawal", "withdrawals"}
	creditHeaders      = []string{"credit", "deposit", "deposits"}
	idHeaders          = []string{"id", "transaction id", "reference"}
)

// Parser reads CSV files with a header row.
type Parser struct {
	// AccountID is attached to every parsed transaction.
	AccountID string
	// NewID generates IDs for rows without an id column.
	NewID func() string
}

// NewParser creates a CSV parser for the given account.
func NewParser(accountID string) *Parser {
	return &Parser{
		AccountID: accountID,
		NewID:     func() string { return uuid.New().String() },
	}
}

type columns struct {
	date, description, amount, debit, credit, id int
}

// ParseFile parses a CSV export. Amounts are signed: debits are negative.
// Rows that cannot be parsed are logged and skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV file: %w", common.ErrNoTransactions)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		txn, err := p.convertRecord(record, cols)
		if err != nil {
			slog.WarnContext(ctx, "Skipping CSV row", "line", line, "error", err)
			continue
		}
		transactions = append(transactions, txn)
	}

	slog.DebugContext(ctx, "Parsed CSV file", "total_transactions", len(transactions))
	return transactions, nil
}

func mapColumns(header []string) (columns, error) {
	cols := columns{date: -1, description: -1, amount: -1, debit: -1, credit: -1, id: -1}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case cols.date < 0 && contains(dateHeaders, name):
			cols.date = i
		case cols.description < 0 && contains(descriptionHeaders, name):
			cols.description = i
		case cols.amount < 0 && contains(amountHeaders, name):
			cols.amount = i
		case cols.debit < 0 && contains(debitHeaders, name):
			cols.debit = i
		case cols.credit < 0 && contains(creditHeaders, name):
			cols.credit = i
		case cols.id < 0 && contains(idHeaders, name):
			cols.id = i
		}
	}

	if cols.date < 0 {
		return cols, fmt.Errorf("%w: date", ErrMissingColumn)
	}
	if cols.description < 0 {
		return cols, fmt.Errorf("%w: description", ErrMissingColumn)
	}
	if cols.amount < 0 && cols.debit < 0 && cols.credit < 0 {
		return cols, fmt.Errorf("%w: amount", ErrMissingColumn)
	}
	return cols, nil
}

func (p *Parser) convertRecord(record []string, cols columns) (model.Transaction, error) {
	date, err := parseDate(field(record, cols.date))
	if err != nil {
		return model.Transaction{}, err
	}

	description := strings.TrimSpace(field(record, cols.description))
	if description == "" {
		return model.Transaction{}, errors.New("empty description")
	}

	amount, err := p.recordAmount(record, cols)
	if err != nil {
		return model.Transaction{}, err
	}

	txn := model.Transaction{
		ID:          strings.TrimSpace(field(record, cols.id)),
		Date:        date,
		Description: description,
		Amount:      amount,
		AccountID:   p.AccountID,
	}
	if txn.ID == "" {
		txn.ID = p.NewID()
	}
	txn.Hash = txn.GenerateHash()

	return txn, nil
}

func (p *Parser) recordAmount(record []string, cols columns) (float64, error) {
	if cols.amount >= 0 {
		return ParseAmount(field(record, cols.amount))
	}

	var amount float64
	if raw := strings.TrimSpace(field(record, cols.debit)); raw != "" {
		debit, err := ParseAmount(raw)
		if err != nil {
			return 0, err
		}
		if debit > 0 {
			debit = -debit
		}
		amount += debit
	}
	if raw := strings.TrimSpace(field(record, cols.credit)); raw != "" {
		credit, err := ParseAmount(raw)
		if err != nil {
			return 0, err
		}
		if credit < 0 {
			credit = -credit
		}
		amount += credit
	}
	return amount, nil
}

// ParseAmount parses a currency string such as "$1,234.56" or "(12.00)".
// Parentheses denote a negative amount.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
