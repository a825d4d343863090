package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

func TestNormalize(t *testing.T) {
	bankLine := func(line int, id, date, amount string) domain.RawLine {
		return domain.RawLine{Source: "bank.csv", Line: line, ID: id, Date: date, Description: "PIX " + id, Amount: amount}
	}
	systemLine := func(line int, id, date, txType, amount string) domain.RawLine {
		return domain.RawLine{Source: "system.csv", Line: line, ID: id, Date: date, Description: "Invoice " + id, Type: txType, Amount: amount}
	}

	t.Run("normalizes both sides", func(t *testing.T) {
		bank := []domain.RawLine{bankLine(2, "B1", "2024-01-15", "-1485.00")}
		bank[0].Document = " NF-001 "
		system := []domain.RawLine{
			systemLine(2, "S1", "15/01/2024", "debit", "1500.00"),
			systemLine(3, "S2", "2024-01-16", "", "-20.00"),
			systemLine(4, "S3", "2024-01-17", "", "300"),
		}

		got, err := usecase.Normalize(bank, system, usecase.NormalizeOptions{})
		require.NoError(t, err)

		require.Len(t, got.Bank, 1)
		assert.Equal(t, domain.BankTransaction{
			ID:                  "B1",
			Date:                domain.MustParseDate("2024-01-15"),
			Description:         "PIX B1",
			Amount:              domain.MustParseAmount("-1485.00"),
			ExternalDocumentRef: "NF-001",
		}, got.Bank[0])

		require.Len(t, got.System, 3)
		assert.Equal(t, domain.TransactionTypeDebit, got.System[0].Type)
		assert.Equal(t, domain.MustParseAmount("1500.00"), got.System[0].Amount)
		assert.Equal(t, domain.TransactionTypeDebit, got.System[1].Type, "negative untyped amount is a debit")
		assert.Equal(t, domain.MustParseAmount("20.00"), got.System[1].Amount)
		assert.Equal(t, domain.TransactionTypeCredit, got.System[2].Type)
		assert.Empty(t, got.Rejected)
	})

	t.Run("rejects the whole batch on a malformed line", func(t *testing.T) {
		bank := []domain.RawLine{
			bankLine(2, "B1", "2024-01-15", "100.00"),
			bankLine(3, "B2", "2024-01-15", "10.001"),
		}

		got, err := usecase.Normalize(bank, nil, usecase.NormalizeOptions{})
		assert.Nil(t, got)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedRecord))

		var batch *domain.MalformedBatchError
		require.True(t, errors.As(err, &batch))
		require.Len(t, batch.Records, 1)
		assert.Equal(t, "bank.csv", batch.Records[0].Source)
		assert.Equal(t, 3, batch.Records[0].Line)
		assert.Equal(t, "amount", batch.Records[0].Field)
	})

	t.Run("partial mode keeps good lines and reports the rest", func(t *testing.T) {
		bank := []domain.RawLine{
			bankLine(2, "B1", "2024-01-15", "100.00"),
			bankLine(3, "", "2024-01-15", "5.00"),
			bankLine(4, "B3", "not-a-date", "5.00"),
			bankLine(5, "B1", "2024-01-16", "7.00"),
		}
		system := []domain.RawLine{
			systemLine(2, "S1", "2024-01-15", "TRANSFER", "1.00"),
			systemLine(3, "S2", "2024-01-15", "CREDIT", "-1.00"),
			systemLine(4, "S3", "2024-01-15", "CREDIT", "1.00"),
		}

		got, err := usecase.Normalize(bank, system, usecase.NormalizeOptions{AllowPartial: true})
		require.NoError(t, err)
		assert.Len(t, got.Bank, 1)
		assert.Len(t, got.System, 1)

		fields := make([]string, 0, len(got.Rejected))
		for _, r := range got.Rejected {
			fields = append(fields, r.Source+":"+r.Field)
		}
		assert.Equal(t, []string{
			"bank.csv:id", "bank.csv:date", "bank.csv:id",
			"system.csv:type", "system.csv:amount",
		}, fields)
		assert.Equal(t, "duplicate id", got.Rejected[2].Reason)
	})
}
