package domain

import "strings"

// TransactionType defines the nature of a system transaction (DEBIT or CREDIT).
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// ParseTransactionType is case-insensitive. ok is false for anything but DEBIT/CREDIT.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionTypeDebit:
		return TransactionTypeDebit, true
	case TransactionTypeCredit:
		return TransactionTypeCredit, true
	}
	return "", false
}

// RawLine is an unparsed row from a bank statement or a system export.
type RawLine struct {
	Source      string `json:"source"`
	Line        int    `json:"line"`
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Document    string `json:"document,omitempty"`
}

// BankTransaction is a statement line. Amount is signed: negative leaves the account.
type BankTransaction struct {
	ID                  string `json:"id"`
	Date                Date   `json:"date"`
	Description         string `json:"description"`
	Amount              Amount `json:"amount"`
	ExternalDocumentRef string `json:"external_document_ref,omitempty"`
}

// SystemTransaction is a movement recorded internally by an operator.
type SystemTransaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Amount      Amount          `json:"amount"` // always >= 0
	Category    string          `json:"category,omitempty"`
	Document    string          `json:"document,omitempty"`
}

// SignedAmount puts the system amount on the bank's sign convention.
func (t SystemTransaction) SignedAmount() Amount {
	if t.Type == TransactionTypeDebit {
		return -t.Amount
	}
	return t.Amount
}
