package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/income"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/spf13/cobra"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Set up your profile: income, expenses, savings goal and net worth",
		Long: `Walk through a short questionnaire that records your income sources,
recurring expenses, monthly savings goal, assets and liabilities. Running it
again replaces the previous answers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Onboarding")
			ctx, stop := interrupts.HandleInterrupts(cmd.Context())
			defer stop()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			existing, err := store.GetProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			prompter := cli.NewLinePrompter(cmd.InOrStdin(), out)
			profile, err := runOnboarding(ctx, prompter, out, existing, time.Now())
			if err != nil {
				if interrupts.WasInterrupted() {
					return nil
				}
				return err
			}

			if err := store.SaveProfile(ctx, profile); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Profile saved"))
			fmt.Fprintln(out, renderDistribution(income.AnalyzeIncomeDistribution(profile.IncomeSources)))
			return nil
		},
	}
}

// runOnboarding asks the onboarding questions, using existing answers as defaults.
func runOnboarding(ctx context.Context, p *cli.LinePrompter, out io.Writer, existing *model.Profile, now time.Time) (*model.Profile, error) {
	if existing == nil {
		existing = &model.Profile{}
	}
	fmt.Fprintln(out, cli.FormatTitle("Welcome to spendwise"))

	name, err := p.Ask(ctx, "What should we call you?", existing.Name)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{Name: name, OnboardedAt: now}

	fmt.Fprintln(out, cli.SubtitleStyle.Render("Income sources"))
	for {
		source, err := askEntry(ctx, p, "Income source name")
		if err != nil {
			return nil, err
		}
		entry := model.IncomeSource{Name: source.Name, Amount: source.Amount, Frequency: source.Frequency}
		if problems := income.ValidateIncomeSource(entry); len(problems) > 0 {
			fmt.Fprintln(out, cli.FormatWarning(strings.Join(problems, "; ")))
			continue
		}
		profile.IncomeSources = append(profile.IncomeSources, entry)

		more, err := p.Confirm(ctx, "Add another income source?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	fmt.Fprintln(out, cli.SubtitleStyle.Render("Recurring expenses"))
	for {
		more, err := p.Confirm(ctx, "Add a recurring expense?", len(profile.Expenses) == 0)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		expense, err := askEntry(ctx, p, "Expense name")
		if err != nil {
			return nil, err
		}
		if problems := income.ValidateExpenseEntry(expense); len(problems) > 0 {
			fmt.Fprintln(out, cli.FormatWarning(strings.Join(problems, "; ")))
			continue
		}
		profile.Expenses = append(profile.Expenses, expense)
	}

	if profile.MonthlySavingsGoal, err = p.AskFloat(ctx, "Monthly savings goal", existing.MonthlySavingsGoal); err != nil {
		return nil, err
	}
	if profile.Assets, err = p.AskFloat(ctx, "Total assets (cash, investments, property)", existing.Assets); err != nil {
		return nil, err
	}
	if profile.Liabilities, err = p.AskFloat(ctx, "Total liabilities (loans, card balances)", existing.Liabilities); err != nil {
		return nil, err
	}

	yearlyIncome := income.CalculateTotalYearlyIncome(profile.IncomeSources)
	yearlyExpenses := income.CalculateTotalYearlyExpenses(profile.Expenses)
	fmt.Fprintf(out, "\nYearly income %s, yearly expenses %s, net worth %s\n",
		cli.FormatMoney(yearlyIncome), cli.FormatMoney(yearlyExpenses), cli.FormatMoney(profile.NetWorth()))

	return profile, nil
}

func askEntry(ctx context.Context, p *cli.LinePrompter, nameQuestion string) (model.ExpenseEntry, error) {
	name, err := p.Ask(ctx, nameQuestion, "")
	if err != nil {
		return model.ExpenseEntry{}, err
	}
	amount, err := p.AskFloat(ctx, "Amount", 0)
	if err != nil {
		return model.ExpenseEntry{}, err
	}

	choices := make([]string, len(model.Frequencies))
	for i, f := range model.Frequencies {
		choices[i] = string(f)
	}
	frequency, err := p.AskChoice(ctx, "How often?", choices, string(model.FrequencyMonthly))
	if err != nil {
		return model.ExpenseEntry{}, err
	}

	return model.ExpenseEntry{Name: name, Amount: amount, Frequency: model.Frequency(frequency)}, nil
}
