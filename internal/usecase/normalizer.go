package usecase

import (
	"strings"

	"hw-reconciliation/internal/domain"
)

// NormalizeOptions controls batch policy for malformed lines.
type NormalizeOptions struct {
	// AllowPartial accepts the well-formed lines of a batch and reports the rest in Rejected.
	AllowPartial bool
}

// NormalizeResult holds canonical transactions and, in partial mode, the rejected lines.
type NormalizeResult struct {
	Bank     []domain.BankTransaction       `json:"bank"`
	System   []domain.SystemTransaction     `json:"system"`
	Rejected []*domain.MalformedRecordError `json:"rejected,omitempty"`
}

// Normalize converts raw bank and system lines into comparable transactions.
// Unless opts.AllowPartial is set, a single malformed line rejects the whole batch
// with a *domain.MalformedBatchError.
func Normalize(rawBank, rawSystem []domain.RawLine, opts NormalizeOptions) (*NormalizeResult, error) {
	result := &NormalizeResult{
		Bank:   make([]domain.BankTransaction, 0, len(rawBank)),
		System: make([]domain.SystemTransaction, 0, len(rawSystem)),
	}

	seenBank := make(map[string]bool, len(rawBank))
	for _, line := range rawBank {
		tx, bad := normalizeBankLine(line)
		if bad == nil && seenBank[tx.ID] {
			bad = malformed(line, "id", line.ID, "duplicate id")
		}
		if bad != nil {
			result.Rejected = append(result.Rejected, bad)
			continue
		}
		seenBank[tx.ID] = true
		result.Bank = append(result.Bank, tx)
	}

	seenSystem := make(map[string]bool, len(rawSystem))
	for _, line := range rawSystem {
		tx, bad := normalizeSystemLine(line)
		if bad == nil && seenSystem[tx.ID] {
			bad = malformed(line, "id", line.ID, "duplicate id")
		}
		if bad != nil {
			result.Rejected = append(result.Rejected, bad)
			continue
		}
		seenSystem[tx.ID] = true
		result.System = append(result.System, tx)
	}

	if len(result.Rejected) > 0 && !opts.AllowPartial {
		return nil, &domain.MalformedBatchError{Records: result.Rejected}
	}
	return result, nil
}

func normalizeBankLine(line domain.RawLine) (domain.BankTransaction, *domain.MalformedRecordError) {
	id := strings.TrimSpace(line.ID)
	if id == "" {
		return domain.BankTransaction{}, malformed(line, "id", line.ID, "missing id")
	}
	date, err := domain.ParseDate(line.Date)
	if err != nil {
		return domain.BankTransaction{}, malformed(line, "date", line.Date, err.Error())
	}
	amount, err := domain.ParseAmount(line.Amount)
	if err != nil {
		return domain.BankTransaction{}, malformed(line, "amount", line.Amount, err.Error())
	}
	return domain.BankTransaction{
		ID:                  id,
		Date:                date,
		Description:         strings.TrimSpace(line.Description),
		Amount:              amount,
		ExternalDocumentRef: strings.TrimSpace(line.Document),
	}, nil
}

func normalizeSystemLine(line domain.RawLine) (domain.SystemTransaction, *domain.MalformedRecordError) {
	id := strings.TrimSpace(line.ID)
	if id == "" {
		return domain.SystemTransaction{}, malformed(line, "id", line.ID, "missing id")
	}
	date, err := domain.ParseDate(line.Date)
	if err != nil {
		return domain.SystemTransaction{}, malformed(line, "date", line.Date, err.Error())
	}
	amount, err := domain.ParseAmount(line.Amount)
	if err != nil {
		return domain.SystemTransaction{}, malformed(line, "amount", line.Amount, err.Error())
	}

	var txType domain.TransactionType
	if strings.TrimSpace(line.Type) == "" {
		// No explicit type: the sign carries the direction.
		txType = domain.TransactionTypeCredit
		if amount < 0 {
			txType = domain.TransactionTypeDebit
		}
		amount = amount.Abs()
	} else {
		var ok bool
		txType, ok = domain.ParseTransactionType(line.Type)
		if !ok {
			return domain.SystemTransaction{}, malformed(line, "type", line.Type, "expected CREDIT or DEBIT")
		}
		if amount < 0 {
			return domain.SystemTransaction{}, malformed(line, "amount", line.Amount, "typed amount must not be negative")
		}
	}

	return domain.SystemTransaction{
		ID:          id,
		Date:        date,
		Description: strings.TrimSpace(line.Description),
		Type:        txType,
		Amount:      amount,
		Category:    strings.TrimSpace(line.Category),
		Document:    strings.TrimSpace(line.Document),
	}, nil
}

func malformed(line domain.RawLine, field, value, reason string) *domain.MalformedRecordError {
	return &domain.MalformedRecordError{
		Source: line.Source,
		Line:   line.Line,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// rejectStored splits txs into those whose id is not yet stored and a record error
// for each one that is. lines are the raw lines txs were normalized from.
func rejectStored[T any](txs []T, idOf func(T) string, stored map[string]bool, lines []domain.RawLine) ([]T, []*domain.MalformedRecordError) {
	if len(stored) == 0 {
		return txs, nil
	}
	lineByID := make(map[string]domain.RawLine, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ID)
		if _, ok := lineByID[id]; !ok {
			lineByID[id] = l
		}
	}

	kept := make([]T, 0, len(txs))
	var rejected []*domain.MalformedRecordError
	for _, tx := range txs {
		id := idOf(tx)
		if stored[id] {
			line := lineByID[id]
			rejected = append(rejected, malformed(line, "id", line.ID, "duplicate id: already recorded for this reconciliation"))
			continue
		}
		kept = append(kept, tx)
	}
	return kept, rejected
}
