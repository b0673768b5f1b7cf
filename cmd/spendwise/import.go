package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/csvimport"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/ofx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelParses bounds how many files are parsed at once.
const maxParallelParses = 4

type fileParser interface {
	ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error)
}

type fileResult struct {
	path         string
	transactions []model.Transaction
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX, QFX or CSV files",
		Long: `Import financial transactions from files exported from your bank.

The format is chosen by file extension: .ofx and .qfx are read as OFX,
.csv as a CSV export with a header row. Transactions already in the
database are skipped.

Examples:
  # Import a single statement
  spendwise import ~/Downloads/chase_jan_2024.qfx

  # Import every CSV in a directory for one account
  spendwise import --account savings ~/Downloads/ally/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("account", "a", "default", "Account ID for CSV files")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("list-accounts", false, "List the accounts in OFX/QFX files without importing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	account, _ := cmd.Flags().GetString("account")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	if listAccounts, _ := cmd.Flags().GetBool("list-accounts"); listAccounts {
		return printAccounts(ctx, out, files)
	}

	results, err := parseFiles(ctx, files, account)
	if err != nil {
		return err
	}

	transactions, duplicates := dedupeByHash(results)
	for _, r := range results {
		fmt.Fprintf(out, "  • %s: %d transactions\n", filepath.Base(r.path), len(r.transactions))
	}

	if len(transactions) == 0 {
		return common.NewUserError("No transactions found in the given files", common.ErrNoTransactions)
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions parsed (%d duplicates across files), nothing saved",
			len(transactions), duplicates)))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	inserted, err := store.SaveTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	common.LogInfo("Imported transactions", common.Fields{
		"files":      len(files),
		"parsed":     len(transactions),
		"inserted":   inserted,
		"duplicates": duplicates,
	})

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions (%d already present)",
		inserted, len(transactions)-inserted)))
	if inserted > 0 {
		fmt.Fprintln(out, cli.FormatInfo("Run 'spendwise categorize' to assign categories"))
	}
	return nil
}

// expandFiles resolves glob patterns and directories to importable files.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("No files found matching pattern", "pattern", pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", match, err)
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			entries, err := os.ReadDir(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", match, err)
			}
			for _, entry := range entries {
				path := filepath.Join(match, entry.Name())
				if !entry.IsDir() && parserFor(path, "") != nil {
					files = append(files, path)
				}
			}
		}
	}

	if len(files) == 0 {
		return nil, common.NewUserError("No files found to import", common.ErrNoTransactions)
	}
	return files, nil
}

// parserFor picks a parser by file extension, or nil when unsupported.
func parserFor(path, account string) fileParser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return ofx.NewParser()
	case ".csv":
		return csvimport.NewParser(account)
	default:
		return nil
	}
}

// parseFiles parses every file concurrently. Results keep the argument order.
func parseFiles(ctx context.Context, files []string, account string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)

	for i, path := range files {
		i, path := i, path
		parser := parserFor(path, account)
		if parser == nil {
			return nil, fmt.Errorf("%s: %w", path, common.ErrUnsupportedFormat)
		}

		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			txns, err := parser.ParseFile(gctx, f)
			if err != nil && !errors.Is(err, common.ErrNoTransactions) {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			slog.Debug("Parsed file", "file", filepath.Base(path), "transactions", len(txns))
			results[i] = fileResult{path: path, transactions: txns}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// dedupeByHash flattens results keeping the first transaction for each hash.
func dedupeByHash(results []fileResult) ([]model.Transaction, int) {
	var (
		transactions []model.Transaction
		seen         = make(map[string]bool)
		duplicates   int
	)

	for _, r := range results {
		for _, txn := range r.transactions {
			if txn.Hash == "" {
				txn.Hash = txn.GenerateHash()
			}
			if seen[txn.Hash] {
				duplicates++
				continue
			}
			seen[txn.Hash] = true
			transactions = append(transactions, txn)
		}
	}

	return transactions, duplicates
}

// printAccounts lists the account IDs found in each OFX/QFX file.
func printAccounts(ctx context.Context, out io.Writer, files []string) error {
	parser := ofx.NewParser()
	for _, path := range files {
		if _, ok := parserFor(path, "").(*ofx.Parser); !ok {
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		accounts, err := parser.GetAccounts(ctx, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to read accounts from %s: %w", path, err)
		}

		fmt.Fprintf(out, "%s: %s\n", filepath.Base(path), strings.Join(accounts, ", "))
	}
	return nil
}
