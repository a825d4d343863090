package usecase_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

func bankTx(id, date, amount string) domain.BankTransaction {
	return domain.BankTransaction{ID: id, Date: domain.MustParseDate(date), Description: "bank " + id, Amount: domain.MustParseAmount(amount)}
}

func systemTx(id, date string, txType domain.TransactionType, amount string) domain.SystemTransaction {
	return domain.SystemTransaction{ID: id, Date: domain.MustParseDate(date), Description: "system " + id, Type: txType, Amount: domain.MustParseAmount(amount)}
}

var defaultTolerance = domain.Tolerance{DateWindowDays: 3, NearMatchPercent: 5}

func TestMatch(t *testing.T) {
	tests := []struct {
		name           string
		bank           []domain.BankTransaction
		system         []domain.SystemTransaction
		tolerance      domain.Tolerance
		wantPairs      []domain.MatchPair
		wantUnmatchedB []string
		wantUnmatchedS []string
	}{
		{
			name:      "same day same amount is exact",
			bank:      []domain.BankTransaction{bankTx("B1", "2024-01-15", "15000.00")},
			system:    []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "15000.00")},
			tolerance: defaultTolerance,
			wantPairs: []domain.MatchPair{
				{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchExact},
			},
		},
		{
			name:      "date shift within window is fuzzy",
			bank:      []domain.BankTransaction{bankTx("B1", "2024-01-17", "-250.00")},
			system:    []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeDebit, "250.00")},
			tolerance: defaultTolerance,
			wantPairs: []domain.MatchPair{
				{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchFuzzy, DateDeltaDays: 2},
			},
		},
		{
			name:      "amount disagreement surfaces as a fuzzy pair with its delta",
			bank:      []domain.BankTransaction{bankTx("B1", "2024-01-15", "1485.00")},
			system:    []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "1500.00")},
			tolerance: defaultTolerance,
			wantPairs: []domain.MatchPair{
				{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchFuzzy, AmountDelta: domain.MustParseAmount("-15.00")},
			},
		},
		{
			name:           "outside window stays unmatched",
			bank:           []domain.BankTransaction{bankTx("B1", "2024-01-20", "100.00")},
			system:         []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "100.00")},
			tolerance:      defaultTolerance,
			wantPairs:      []domain.MatchPair{},
			wantUnmatchedB: []string{"B1"},
			wantUnmatchedS: []string{"S1"},
		},
		{
			name:           "opposite directions never match",
			bank:           []domain.BankTransaction{bankTx("B1", "2024-01-15", "-100.00")},
			system:         []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "100.00")},
			tolerance:      defaultTolerance,
			wantPairs:      []domain.MatchPair{},
			wantUnmatchedB: []string{"B1"},
			wantUnmatchedS: []string{"S1"},
		},
		{
			name:           "near match disabled leaves both sides unmatched",
			bank:           []domain.BankTransaction{bankTx("B1", "2024-01-15", "1485.00")},
			system:         []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "1500.00")},
			tolerance:      domain.Tolerance{DateWindowDays: 3},
			wantPairs:      []domain.MatchPair{},
			wantUnmatchedB: []string{"B1"},
			wantUnmatchedS: []string{"S1"},
		},
		{
			name: "epsilon absorbs small deltas",
			bank: []domain.BankTransaction{bankTx("B1", "2024-01-15", "99.98")},
			system: []domain.SystemTransaction{
				systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "100.00"),
			},
			tolerance: domain.Tolerance{AmountEpsilon: 5, DateWindowDays: 0},
			wantPairs: []domain.MatchPair{
				{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchFuzzy, AmountDelta: -2},
			},
		},
		{
			name: "exact beats a closer-by-id fuzzy candidate",
			bank: []domain.BankTransaction{
				bankTx("B1", "2024-01-15", "100.00"),
				bankTx("B2", "2024-01-16", "100.00"),
			},
			system: []domain.SystemTransaction{
				systemTx("S1", "2024-01-16", domain.TransactionTypeCredit, "100.00"),
			},
			tolerance: defaultTolerance,
			wantPairs: []domain.MatchPair{
				{BankTxID: "B2", SystemTxID: "S1", Confidence: domain.MatchExact},
			},
			wantUnmatchedB: []string{"B1"},
		},
		{
			name: "document reference wins the near-match pass",
			bank: []domain.BankTransaction{
				{ID: "B1", Date: domain.MustParseDate("2024-01-15"), Amount: domain.MustParseAmount("900.00"), ExternalDocumentRef: "NF-9"},
			},
			system: []domain.SystemTransaction{
				{ID: "S1", Date: domain.MustParseDate("2024-01-15"), Type: domain.TransactionTypeCredit, Amount: domain.MustParseAmount("1000.00"), Document: "NF-9"},
				{ID: "S2", Date: domain.MustParseDate("2024-01-15"), Type: domain.TransactionTypeCredit, Amount: domain.MustParseAmount("910.00")},
			},
			tolerance: defaultTolerance,
			wantPairs: []domain.MatchPair{
				{BankTxID: "B1", SystemTxID: "S1", Confidence: domain.MatchFuzzy, AmountDelta: domain.MustParseAmount("-100.00")},
			},
			wantUnmatchedS: []string{"S2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := usecase.Match(tt.bank, tt.system, tt.tolerance)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPairs, got.Pairs)
			assert.Equal(t, orEmpty(tt.wantUnmatchedB), orEmpty(bankIDs(got.UnmatchedBank)))
			assert.Equal(t, orEmpty(tt.wantUnmatchedS), orEmpty(systemIDs(got.UnmatchedSystem)))
		})
	}
}

func TestMatch_InvalidTolerance(t *testing.T) {
	_, err := usecase.Match(nil, nil, domain.Tolerance{AmountEpsilon: -1})
	assert.True(t, errors.Is(err, domain.ErrInvalidTolerance))

	_, err = usecase.Match(nil, nil, domain.Tolerance{DateWindowDays: -1})
	assert.True(t, errors.Is(err, domain.ErrInvalidTolerance))
}

func TestMatch_HugeWindowIsBoundedByInput(t *testing.T) {
	bank := []domain.BankTransaction{bankTx("B1", "2024-01-15", "100.00")}
	system := []domain.SystemTransaction{systemTx("S1", "2020-06-01", domain.TransactionTypeCredit, "100.00")}

	done := make(chan *domain.MatchResult, 1)
	go func() {
		result, err := usecase.Match(bank, system, domain.Tolerance{DateWindowDays: 1 << 40})
		assert.NoError(t, err)
		done <- result
	}()

	select {
	case result := <-done:
		require.NotNil(t, result)
		require.Len(t, result.Pairs, 1)
		assert.Equal(t, "S1", result.Pairs[0].SystemTxID)
	case <-time.After(2 * time.Second):
		t.Fatal("Match did not return with a very large date window")
	}
}

func TestMatch_NearMatchPercentDoesNotOverflow(t *testing.T) {
	bank := []domain.BankTransaction{bankTx("B1", "2024-01-15", "0.01")}
	system := []domain.SystemTransaction{systemTx("S1", "2024-01-15", domain.TransactionTypeCredit, "46116860184273879.04")}

	result, err := usecase.Match(bank, system, defaultTolerance)
	require.NoError(t, err)
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedSystem, 1)
}

func TestMatch_DeterministicAndExclusive(t *testing.T) {
	var bank []domain.BankTransaction
	var system []domain.SystemTransaction
	for i, amount := range []string{"100.00", "100.00", "100.00", "250.00", "-75.50", "-75.50", "1485.00"} {
		id := string(rune('A' + i))
		bank = append(bank, bankTx("B"+id, "2024-01-1"+string(rune('0'+i)), amount))
	}
	for i, amount := range []string{"100.00", "100.00", "250.00", "75.50", "1500.00", "42.00"} {
		id := string(rune('A' + i))
		txType := domain.TransactionTypeCredit
		if amount == "75.50" {
			txType = domain.TransactionTypeDebit
		}
		system = append(system, systemTx("S"+id, "2024-01-1"+string(rune('1'+i)), txType, amount))
	}

	want, err := usecase.Match(bank, system, defaultTolerance)
	require.NoError(t, err)

	usedBank := map[string]bool{}
	usedSystem := map[string]bool{}
	for _, p := range want.Pairs {
		assert.False(t, usedBank[p.BankTxID], "bank %s paired twice", p.BankTxID)
		assert.False(t, usedSystem[p.SystemTxID], "system %s paired twice", p.SystemTxID)
		usedBank[p.BankTxID] = true
		usedSystem[p.SystemTxID] = true
	}
	assert.Equal(t, len(bank), len(want.Pairs)+len(want.UnmatchedBank))
	assert.Equal(t, len(system), len(want.Pairs)+len(want.UnmatchedSystem))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		b := append([]domain.BankTransaction(nil), bank...)
		s := append([]domain.SystemTransaction(nil), system...)
		rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
		rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })

		got, err := usecase.Match(b, s, defaultTolerance)
		require.NoError(t, err)
		assert.Equal(t, want.Pairs, got.Pairs)
		assert.Equal(t, want.UnmatchedBank, got.UnmatchedBank)
		assert.Equal(t, want.UnmatchedSystem, got.UnmatchedSystem)
	}
}

func bankIDs(txs []domain.BankTransaction) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

func systemIDs(txs []domain.SystemTransaction) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

// orEmpty normalizes nil and empty slices so expectations can omit them.
func orEmpty(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	return ids
}
