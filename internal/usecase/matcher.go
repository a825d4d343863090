package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"hw-reconciliation/internal/domain"
)

type candidate struct {
	bank     int
	system   int
	pair     domain.MatchPair
	linked   bool // bank and system share a document reference
	absDate  int
	absDelta domain.Amount
}

// Match pairs bank lines with system transactions.
//
// Pass 1 considers pairs within AmountEpsilon and DateWindowDays. Pass 2 runs over
// what is left and pairs lines linked by document reference or within
// NearMatchPercent of the system amount, so that amount disagreements surface as
// FUZZY pairs instead of two unrelated unmatched items. Both passes assign greedily
// in rank order and a transaction takes part in at most one pair.
func Match(bank []domain.BankTransaction, system []domain.SystemTransaction, tolerance domain.Tolerance) (*domain.MatchResult, error) {
	if err := tolerance.Validate(); err != nil {
		return nil, err
	}

	result := &domain.MatchResult{
		Tolerance:       tolerance,
		Pairs:           make([]domain.MatchPair, 0),
		UnmatchedBank:   make([]domain.BankTransaction, 0),
		UnmatchedSystem: make([]domain.SystemTransaction, 0),
		BankByID:        make(map[string]domain.BankTransaction, len(bank)),
		SystemByID:      make(map[string]domain.SystemTransaction, len(system)),
	}
	for _, b := range bank {
		result.BankByID[b.ID] = b
	}
	for _, s := range system {
		result.SystemByID[s.ID] = s
	}

	idx := newDateIndex(system)

	matchedBank := make([]bool, len(bank))
	matchedSystem := make([]bool, len(system))

	// Pass 1: tolerance window.
	var primary []candidate
	forEachInWindow(bank, system, idx, tolerance.DateWindowDays, func(c candidate) {
		if c.absDelta <= tolerance.AmountEpsilon {
			primary = append(primary, c)
		}
	})
	sortCandidates(primary, false)
	assign(result, primary, matchedBank, matchedSystem)

	// Pass 2: near matches among leftovers.
	var near []candidate
	forEachInWindow(bank, system, idx, tolerance.DateWindowDays, func(c candidate) {
		if matchedBank[c.bank] || matchedSystem[c.system] {
			return
		}
		if c.linked || (tolerance.NearMatchPercent > 0 && withinPercent(c.absDelta, system[c.system].Amount, tolerance.NearMatchPercent)) {
			near = append(near, c)
		}
	})
	sortCandidates(near, true)
	assign(result, near, matchedBank, matchedSystem)

	for i, b := range bank {
		if !matchedBank[i] {
			result.UnmatchedBank = append(result.UnmatchedBank, b)
		}
	}
	for i, s := range system {
		if !matchedSystem[i] {
			result.UnmatchedSystem = append(result.UnmatchedSystem, s)
		}
	}
	sort.SliceStable(result.UnmatchedBank, func(i, j int) bool {
		return result.UnmatchedBank[i].ID < result.UnmatchedBank[j].ID
	})
	sort.SliceStable(result.UnmatchedSystem, func(i, j int) bool {
		return result.UnmatchedSystem[i].ID < result.UnmatchedSystem[j].ID
	})

	return result, nil
}

// dateIndex groups system transactions by date. dates is sorted so a bank line
// finds its window with a binary search whatever the window size.
type dateIndex struct {
	dates  []domain.Date
	byDate map[domain.Date][]int
}

func newDateIndex(system []domain.SystemTransaction) dateIndex {
	idx := dateIndex{byDate: make(map[domain.Date][]int)}
	for i, s := range system {
		if _, ok := idx.byDate[s.Date]; !ok {
			idx.dates = append(idx.dates, s.Date)
		}
		idx.byDate[s.Date] = append(idx.byDate[s.Date], i)
	}
	sort.Slice(idx.dates, func(i, j int) bool { return idx.dates[i].Before(idx.dates[j]) })
	return idx
}

// window returns the system dates at most window days away from d, in order.
func (idx dateIndex) window(d domain.Date, window int) []domain.Date {
	lo := sort.Search(len(idx.dates), func(k int) bool {
		return idx.dates[k].DaysSince(d) >= -window
	})
	hi := lo
	for hi < len(idx.dates) && idx.dates[hi].DaysSince(d) <= window {
		hi++
	}
	return idx.dates[lo:hi]
}

// withinPercent reports |delta| <= percent% of amount without risking int64 overflow.
func withinPercent(delta, amount domain.Amount, percent int) bool {
	lhs := decimal.NewFromInt(int64(delta)).Mul(decimal.NewFromInt(100))
	rhs := decimal.NewFromInt(int64(percent)).Mul(decimal.NewFromInt(int64(amount)))
	return lhs.LessThanOrEqual(rhs)
}

// forEachInWindow yields every same-direction bank/system combination whose dates
// are at most window days apart.
func forEachInWindow(bank []domain.BankTransaction, system []domain.SystemTransaction, idx dateIndex, window int, yield func(candidate)) {
	for bi, b := range bank {
		for _, date := range idx.window(b.Date, window) {
			for _, si := range idx.byDate[date] {
				s := system[si]
				signed := s.SignedAmount()
				if b.Amount.Sign() != signed.Sign() {
					continue
				}
				delta := b.Amount - signed
				dateDelta := b.Date.DaysSince(s.Date)
				confidence := domain.MatchFuzzy
				if delta == 0 && dateDelta == 0 {
					confidence = domain.MatchExact
				}
				yield(candidate{
					bank:   bi,
					system: si,
					pair: domain.MatchPair{
						BankTxID:      b.ID,
						SystemTxID:    s.ID,
						Confidence:    confidence,
						DateDeltaDays: dateDelta,
						AmountDelta:   delta,
					},
					linked:   b.ExternalDocumentRef != "" && b.ExternalDocumentRef == s.Document,
					absDate:  abs(dateDelta),
					absDelta: delta.Abs(),
				})
			}
		}
	}
}

// sortCandidates orders EXACT before FUZZY, then by date distance, amount distance
// and finally ids. When preferLinked is set, document-linked candidates come first.
func sortCandidates(cs []candidate, preferLinked bool) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if preferLinked && a.linked != b.linked {
			return a.linked
		}
		if (a.pair.Confidence == domain.MatchExact) != (b.pair.Confidence == domain.MatchExact) {
			return a.pair.Confidence == domain.MatchExact
		}
		if a.absDate != b.absDate {
			return a.absDate < b.absDate
		}
		if a.absDelta != b.absDelta {
			return a.absDelta < b.absDelta
		}
		if a.pair.BankTxID != b.pair.BankTxID {
			return a.pair.BankTxID < b.pair.BankTxID
		}
		return a.pair.SystemTxID < b.pair.SystemTxID
	})
}

func assign(result *domain.MatchResult, cs []candidate, matchedBank, matchedSystem []bool) {
	for _, c := range cs {
		if matchedBank[c.bank] || matchedSystem[c.system] {
			continue
		}
		matchedBank[c.bank] = true
		matchedSystem[c.system] = true
		result.Pairs = append(result.Pairs, c.pair)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
