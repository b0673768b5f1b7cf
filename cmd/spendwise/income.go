package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/income"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/spf13/cobra"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income sources",
		Long: `Record where your money comes from and see how it is distributed.

Frequencies: Weekly, Bi-weekly, Monthly, Yearly, One-time.`,
	}

	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(listIncomeCmd())
	cmd.AddCommand(removeIncomeCmd())
	cmd.AddCommand(analyzeIncomeCmd())
	cmd.AddCommand(convertIncomeCmd())

	return cmd
}

func addIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <amount> <frequency>",
		Short: "Add an income source",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			frequency := canonicalFrequency(args[2])

			if problems := income.ValidateIncomeInput(args[0], args[1], string(frequency)); len(problems) > 0 {
				return common.NewUserError(strings.Join(problems, "; "), nil)
			}
			amount, _ := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			profile, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			source := model.IncomeSource{Name: strings.TrimSpace(args[0]), Amount: amount, Frequency: frequency}
			profile.IncomeSources = append(profile.IncomeSources, source)

			if err := store.SaveProfile(ctx, profile); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s: %s %s (%s/year)",
				source.Name, cli.FormatMoney(source.Amount), source.Frequency,
				cli.FormatMoney(income.ConvertToYearly(source.Amount, source.Frequency)))))
			return nil
		},
	}
}

func listIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List income sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			profile, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			if len(profile.IncomeSources) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No income sources yet. Use 'spendwise income add' or 'spendwise onboard'."))
				return nil
			}

			rows := make([][]string, 0, len(profile.IncomeSources))
			for _, src := range profile.IncomeSources {
				rows = append(rows, []string{
					src.Name,
					cli.FormatMoney(src.Amount),
					string(src.Frequency),
					cli.FormatMoney(income.ConvertToYearly(src.Amount, src.Frequency)),
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Name", "Amount", "Frequency", "Yearly"}, rows))
			fmt.Fprintf(out, "\nTotal yearly income: %s\n", cli.FormatMoney(income.CalculateTotalYearlyIncome(profile.IncomeSources)))
			return nil
		},
	}
}

func removeIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an income source by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			profile, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			kept := profile.IncomeSources[:0]
			removed := 0
			for _, src := range profile.IncomeSources {
				if strings.EqualFold(src.Name, args[0]) {
					removed++
					continue
				}
				kept = append(kept, src)
			}
			if removed == 0 {
				return common.NewUserError(fmt.Sprintf("No income source named %q", args[0]), common.ErrNotFound)
			}
			profile.IncomeSources = kept

			if err := store.SaveProfile(ctx, profile); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+args[0]))
			return nil
		},
	}
}

func analyzeIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Show how income is distributed across sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			profile, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderDistribution(income.AnalyzeIncomeDistribution(profile.IncomeSources)))
			return nil
		},
	}
}

func renderDistribution(dist *income.Distribution) string {
	if dist == nil {
		return cli.InfoStyle.Render("No income to analyze yet.")
	}

	body := fmt.Sprintf("  • Total yearly: %s\n", cli.FormatMoney(dist.TotalYearly)) +
		fmt.Sprintf("  • Monthly average: %s\n", cli.FormatMoney(dist.MonthlyAverage)) +
		fmt.Sprintf("  • Sources: %d\n", dist.TotalSources) +
		fmt.Sprintf("  • Primary: %s (%d%%)\n", dist.PrimarySource, dist.PrimaryPercentage)

	if dist.IsDiversified {
		body += "  " + cli.FormatSuccess("Income is diversified")
	} else {
		body += "  " + cli.FormatWarning(fmt.Sprintf("Most income depends on %s", dist.PrimarySource))
	}

	return cli.RenderBox(cli.ChartIcon+" Income Distribution", body)
}

func convertIncomeCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:     "convert <amount>",
		Short:   "Convert an amount between frequencies",
		Example: `  spendwise income convert 2000 --from Bi-weekly --to Monthly`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return common.NewUserError("Amount must be a number", err)
			}

			fromFreq, toFreq := canonicalFrequency(from), canonicalFrequency(to)
			for _, f := range []model.Frequency{fromFreq, toFreq} {
				if !f.IsValid() {
					return common.NewUserError(income.MsgInvalidFrequency+": "+string(f), nil)
				}
			}

			yearly := income.ConvertToYearly(amount, fromFreq)
			converted := income.ConvertFromYearly(yearly, toFreq)

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (%s yearly)\n",
				cli.FormatMoney(amount), fromFreq,
				cli.FormatMoney(converted), toFreq,
				cli.FormatMoney(yearly))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", string(model.FrequencyMonthly), "Frequency of the given amount")
	cmd.Flags().StringVar(&to, "to", string(model.FrequencyYearly), "Frequency to convert to")

	return cmd
}

// canonicalFrequency matches user input to a known frequency ignoring case,
// so "biweekly" and "bi-weekly" both resolve to Bi-weekly. Unknown input is
// returned unchanged for validation to report.
func canonicalFrequency(input string) model.Frequency {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input)), "-", "")
	for _, f := range model.Frequencies {
		if strings.ReplaceAll(strings.ToLower(string(f)), "-", "") == normalized {
			return f
		}
	}
	return model.Frequency(input)
}
