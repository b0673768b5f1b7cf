package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/spendwise/internal/cli"
	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/storage"
	"github.com/spf13/cobra"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, update, and delete the income, expense and savings categories used for matching.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(keywordCategoryCmd())
	cmd.AddCommand(budgetCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'spendwise categories add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(categories))
			for _, cat := range categories {
				budget := cli.SubtleStyle.Render("-")
				if cat.Budget != nil {
					budget = cli.FormatMoney(*cat.Budget)
				}
				rows = append(rows, []string{
					cat.ID,
					cat.Name,
					string(cat.Type),
					budget,
					truncate(strings.Join(cat.Keywords, ", "), 50),
					strconv.Itoa(len(cat.MerchantMappings)),
				})
			}

			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Type", "Budget", "Keywords", "Merchants"}, rows))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		keywords     []string
		budget       float64
		id           string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if id == "" {
				id = slugify(name)
			}

			category := &model.Category{
				ID:       id,
				Name:     name,
				Type:     model.CategoryType(categoryType),
				Keywords: keywords,
			}
			if cmd.Flags().Changed("budget") {
				category.Budget = &budget
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.CreateCategory(ctx, category); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("Category %q already exists", id), err)
				}
				if errors.Is(err, storage.ErrInvalidCategory) {
					return common.NewUserError("Invalid category: type must be income, expense or savings", err)
				}
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %s (%s)", name, id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", string(model.CategoryTypeExpense), "Category type (income, expense, savings)")
	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "Keywords to match in descriptions (comma-separated)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Monthly budget")
	cmd.Flags().StringVar(&id, "id", "", "Category ID (default: derived from the name)")

	return cmd
}

func keywordCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keyword <category-id> <keyword>",
		Short: "Add a matching keyword to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.AddCategoryKeyword(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to add keyword: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added keyword %q to %s", args[1], args[0])))
			return nil
		},
	}
}

func budgetCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget <category-id> <amount|none>",
		Short: "Set or clear a category's monthly budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var budget *float64
			if !strings.EqualFold(args[1], "none") {
				amount, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "$"), 64)
				if err != nil || amount < 0 {
					return common.NewUserError("Budget must be a non-negative number or 'none'", err)
				}
				budget = &amount
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.UpdateCategoryBudget(ctx, args[0], budget); err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}

			msg := "Cleared budget for " + args[0]
			if budget != nil {
				msg = fmt.Sprintf("Set %s budget to %s/month", args[0], cli.FormatMoney(*budget))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category that no transaction uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteCategory(ctx, args[0]); err != nil {
				if errors.Is(err, storage.ErrCategoryInUse) {
					return common.NewUserError(fmt.Sprintf("Category %s is assigned to transactions; reassign them first", args[0]), err)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted category "+args[0]))
			return nil
		},
	}
}

// slugify turns a display name into a category ID, e.g. "Dining Out" -> "dining-out".
func slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
