// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single imported financial transaction.
type Transaction struct {
	Date        time.Time `json:"date"`
	ID          string    `json:"id"`
	Description string    `json:"description"` // Raw description as provided by the bank
	CategoryID  string    `json:"category,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
	Hash        string    `json:"hash,omitempty"`
	Amount      float64   `json:"amount"` // Negative for money leaving the account
	Sample      bool      `json:"sample"`
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsCategorized reports whether a category has been assigned.
func (t *Transaction) IsCategorized() bool {
	return t.CategoryID != ""
}

// IsExpense reports whether money left the account.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}
