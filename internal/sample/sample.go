// Package sample provides a month of demo transactions for trying spendwise
// without importing real bank data.
package sample

import (
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// AccountID marks transactions created by Transactions.
const AccountID = "sample-checking"

type entry struct {
	description string
	day         int
	amount      float64
}

var entries = []entry{
	{"ACME CORP PAYROLL DIRECT DEP", 1, 2850.00},
	{"OAKWOOD PROPERTY MGMT RENT", 1, -1650.00},
	{"STARBUCKS STORE #10423", 2, -6.45},
	{"WHOLE FOODS MARKET #102", 3, -84.12},
	{"SHELL OIL 57444123", 4, -42.80},
	{"NETFLIX.COM", 5, -15.49},
	{"AMAZON.COM*2K4LM89Q0", 6, -63.27},
	{"CITY POWER & LIGHT UTILITY", 7, -96.30},
	{"CHIPOTLE 1234", 8, -13.85},
	{"UBER *TRIP HELP.UBER.COM", 9, -18.40},
	{"TRADER JOE'S #552", 10, -57.66},
	{"CVS/PHARMACY #0412", 11, -22.19},
	{"COSTCO WHSE #0481", 12, -214.55},
	{"ONLINE PAYMENT THANK YOU", 13, 450.00},
	{"VANGUARD ROTH IRA CONTRIBUTION", 14, -500.00},
	{"ACME CORP PAYROLL DIRECT DEP", 15, 2850.00},
	{"SPOTIFY USA", 16, -11.99},
	{"COMCAST INTERNET", 17, -79.99},
	{"TARGET 00012345", 18, -48.73},
	{"BLUE BOTTLE COFFEE", 19, -5.75},
	{"INTEREST PAYMENT", 20, 3.12},
	{"LOCAL HARDWARE CO", 22, -134.20},
	{"AMC THEATRES #7781", 24, -31.50},
	{"EMERGENCY FUND TRANSFER", 26, -200.00},
}

// Transactions returns the demo transactions dated in the month before now.
// IDs are stable so loading twice does not duplicate anything.
func Transactions(now time.Time) []model.Transaction {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	txns := make([]model.Transaction, 0, len(entries))
	for i, e := range entries {
		txn := model.Transaction{
			ID:          fmt.Sprintf("sample-%03d", i+1),
			Date:        first.AddDate(0, 0, e.day-1),
			Description: e.description,
			Amount:      e.amount,
			AccountID:   AccountID,
			Sample:      true,
		}
		txn.Hash = txn.GenerateHash()
		txns = append(txns, txn)
	}
	return txns
}
