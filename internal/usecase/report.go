package usecase

import (
	"context"
	"errors"
	"fmt"

	"hw-reconciliation/internal/domain"
)

// ReconcileFiles runs the whole workflow for one period from raw sources: open a
// reconciliation, ingest both sides, derive balances, match and verify.
func (uc *ReconciliationUseCase) ReconcileFiles(ctx context.Context, actor string, src TransactionSource, in NewReconciliation, systemPath string, bankPaths []string, asOf domain.Date, opts NormalizeOptions) (*domain.ReconciliationReport, error) {
	// Step 1: Data Ingestion
	systemLines, err := src.GetSystemLines(ctx, systemPath)
	if err != nil {
		return nil, fmt.Errorf("could not get system transactions: %w", err)
	}
	bankLines, err := src.GetBankLines(ctx, bankPaths)
	if err != nil {
		return nil, fmt.Errorf("could not get bank transactions: %w", err)
	}

	// Validate both sides before anything is persisted.
	if _, err := Normalize(bankLines, systemLines, opts); err != nil {
		return nil, err
	}

	rec, err := uc.CreateReconciliation(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	bank, err := uc.ImportBankStatement(ctx, actor, rec.ID, bankLines, opts)
	if err != nil {
		return nil, err
	}
	system, err := uc.RecordSystemTransactions(ctx, actor, rec.ID, systemLines, opts)
	if err != nil {
		return nil, err
	}

	// Step 2: Balances derived from the start balance and each side's movements.
	bankBalance, systemBalance := rec.StartBalance, rec.StartBalance
	for _, b := range bank.Bank {
		bankBalance += b.Amount
	}
	for _, s := range system.System {
		systemBalance += s.SignedAmount()
	}
	if _, err := uc.SetBalances(ctx, actor, rec.ID, bankBalance, systemBalance); err != nil {
		return nil, err
	}

	// Step 3: Matching and classification
	run, err := uc.RunMatching(ctx, actor, rec.ID, asOf)
	if err != nil {
		return nil, err
	}
	divergences, err := uc.ListDivergences(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	report := &domain.ReconciliationReport{
		Summary:         domain.NewSummary(asOf, len(bank.Bank), len(system.System), run.Result, divergences),
		Reconciliation:  run.Reconciliation,
		Pairs:           run.Result.Pairs,
		UnmatchedBank:   run.Result.UnmatchedBank,
		UnmatchedSystem: run.Result.UnmatchedSystem,
		Divergences:     divergences,
	}

	// Step 4: Balance verification
	balance, err := uc.VerifyBalance(ctx, rec.ID)
	if err != nil && !errors.Is(err, domain.ErrBalanceMismatch) {
		return nil, err
	}
	report.Balance = balance
	if err != nil {
		report.BalanceError = err.Error()
	}
	return report, nil
}
