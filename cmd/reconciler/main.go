package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"hw-reconciliation/internal/config"
	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/gateway"
	"hw-reconciliation/internal/usecase"
)

func main() {
	// Define command-line flags
	systemFile := flag.String("system", "", "Path to the system transactions CSV file (required)")
	bankFilesStr := flag.String("bank", "", "Comma-separated list of paths to bank statement CSV files (required)")
	clientID := flag.String("client", "", "Client identifier (required)")
	bankName := flag.String("bank-name", "", "Bank name (required)")
	account := flag.String("account", "", "Bank account (required)")
	period := flag.String("period", "", "Reconciliation period label, e.g. 2024-01")
	startBalanceStr := flag.String("start-balance", "0.00", "Opening balance of the statement")
	endBalanceStr := flag.String("end-balance", "", "Closing balance of the statement (defaults to the implied one)")
	asOfStr := flag.String("as-of", "", "Evaluation date (YYYY-MM-DD), defaults to today")
	partial := flag.Bool("partial", false, "Accept well-formed lines and report malformed ones instead of failing")
	dbPath := flag.String("db", ":memory:", "SQLite database path")
	actor := flag.String("actor", "cli", "Actor recorded in the audit trail")
	flag.Parse()

	// Validate required flags
	if *systemFile == "" || *bankFilesStr == "" || *clientID == "" || *bankName == "" || *account == "" {
		fmt.Println("Error: flags -system, -bank, -client, -bank-name and -account are required.")
		flag.Usage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)

	startBalance, err := domain.ParseAmount(*startBalanceStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("error parsing start balance")
	}
	asOf := domain.DateOf(time.Now())
	if *asOfStr != "" {
		if asOf, err = domain.ParseDate(*asOfStr); err != nil {
			logger.Fatal().Err(err).Msg("error parsing as-of date")
		}
	}

	// Split bank files string into a slice
	bankFiles := strings.Split(*bankFilesStr, ",")

	// --- Dependency Injection (Wiring the application) ---
	store, err := gateway.NewSQLiteStore(*dbPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	audit := gateway.MultiAuditLogger{store, gateway.NewZerologAuditLogger(logger)}
	reconciliationUseCase := usecase.NewReconciliationUseCase(store, audit, cfg.Settings(), logger)
	csvRepo := gateway.NewCSVTransactionRepository()

	in := usecase.NewReconciliation{
		ClientID:     *clientID,
		Bank:         *bankName,
		Account:      *account,
		Period:       *period,
		StartBalance: startBalance,
		Responsible:  *actor,
	}
	if *endBalanceStr != "" {
		if in.EndBalance, err = domain.ParseAmount(*endBalanceStr); err != nil {
			logger.Fatal().Err(err).Msg("error parsing end balance")
		}
	} else {
		lines, err := csvRepo.GetBankLines(context.Background(), bankFiles)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to read bank statements")
		}
		in.EndBalance = impliedEndBalance(startBalance, lines)
	}

	// --- Execute the Usecase ---
	report, err := reconciliationUseCase.ReconcileFiles(context.Background(), *actor, csvRepo, in, *systemFile, bankFiles,
		asOf, usecase.NormalizeOptions{AllowPartial: *partial})
	if err != nil {
		logger.Fatal().Err(err).Msg("reconciliation failed")
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate JSON report")
	}

	fmt.Println(string(output))
}

// impliedEndBalance sums the parseable statement amounts. Bad lines are left for
// the normalizer to report.
func impliedEndBalance(start domain.Amount, lines []domain.RawLine) domain.Amount {
	end := start
	for _, l := range lines {
		if a, err := domain.ParseAmount(l.Amount); err == nil {
			end += a
		}
	}
	return end
}
