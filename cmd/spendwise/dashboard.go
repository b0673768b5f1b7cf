package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/dashboard"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		month     string
		noSample  bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize income, spending and budgets",
		Long: `Show totals, per-category spending against budgets and your profile's
income distribution. Without flags every transaction is included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, err := parseDateFlag(startDate, false)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endDate, true)
			if err != nil {
				return err
			}
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.UTC)
				if err != nil {
					return fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
				}
				start, end = monthRange(m)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			profile, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			transactions, err := store.GetTransactions(ctx, service.TransactionFilter{ExcludeSample: noSample})
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			summary := dashboard.Build(profile, categories, transactions, start, end)
			renderDashboard(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Calendar month (YYYY-MM), overrides --start/--end")
	cmd.Flags().BoolVar(&noSample, "no-sample", false, "Exclude sample transactions")

	return cmd
}

func renderDashboard(out io.Writer, s dashboard.Summary) {
	fmt.Fprintln(out, cli.FormatTitle("Dashboard "+describePeriod(s.Period)))

	totals := fmt.Sprintf("  • Income: %s\n", cli.FormatSignedMoney(s.TotalIncome)) +
		fmt.Sprintf("  • Expenses: %s\n", cli.FormatSignedMoney(-s.TotalExpenses)) +
		fmt.Sprintf("  • Saved: %s\n", cli.FormatMoney(s.TotalSaved)) +
		fmt.Sprintf("  • Net: %s\n", cli.FormatSignedMoney(s.Net)) +
		fmt.Sprintf("  • Savings rate: %s\n", cli.FormatPercent(s.SavingsRate)) +
		fmt.Sprintf("  • Transactions: %s (%d uncategorized, %d card payments)",
			cli.FormatCount(s.TransactionCount), s.Uncategorized, s.CardPayments)
	fmt.Fprintln(out, cli.RenderBox("Activity", totals))

	if len(s.Categories) > 0 {
		rows := make([][]string, 0, len(s.Categories))
		for _, c := range s.Categories {
			budget := cli.SubtleStyle.Render("-")
			if c.Budget != nil {
				budget = fmt.Sprintf("%s of %s", cli.FormatPercent(c.BudgetUsed), cli.FormatMoney(*c.Budget))
				if c.OverBudget {
					budget = cli.ErrorStyle.Render(budget)
				}
			}
			rows = append(rows, []string{
				c.Name,
				string(c.Type),
				strconv.Itoa(c.Count),
				cli.FormatMoney(c.Spent),
				cli.FormatMoney(c.Received),
				budget,
			})
		}
		fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Type", "Txns", "Spent", "Received", "Budget"}, rows))
	}

	profile := fmt.Sprintf("  • Yearly income: %s\n", cli.FormatMoney(s.ProfileYearlyIncome)) +
		fmt.Sprintf("  • Yearly expenses: %s\n", cli.FormatMoney(s.ProfileYearlyExpenses)) +
		fmt.Sprintf("  • Monthly savings goal: %s\n", cli.FormatMoney(s.MonthlySavingsGoal)) +
		fmt.Sprintf("  • Net worth: %s", cli.FormatSignedMoney(s.NetWorth))
	fmt.Fprintln(out, cli.RenderBox("Profile", profile))

	if s.Distribution != nil {
		fmt.Fprintln(out, renderDistribution(s.Distribution))
	}

	if s.SampleCount > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d sample transactions included. Remove them with 'spendwise sample clear'", s.SampleCount)))
	}
}

func describePeriod(r service.DateRange) string {
	var parts []string
	if !r.Start.IsZero() {
		parts = append(parts, "from "+r.Start.Format(dateLayout))
	}
	if !r.End.IsZero() {
		parts = append(parts, "to "+r.End.Format(dateLayout))
	}
	if len(parts) == 0 {
		return "(all time)"
	}
	return "(" + strings.Join(parts, " ") + ")"
}
