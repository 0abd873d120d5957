package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtlebank/teenfin/internal/catalog"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Survey catalog tools",
	}
	cmd.AddCommand(newCatalogCheckCommand())
	return cmd
}

func newCatalogCheckCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a survey catalog file",
		Long:  "Parses the survey catalog JSON and runs the same structural validation the server applies at startup, then prints a summary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Load(path)
			if err != nil {
				return fmt.Errorf("catalog check failed: %w", err)
			}

			savings, deposits, cards := 0, 0, 0
			for _, p := range cat.Products() {
				typ, _ := catalog.ParseProductType(string(p.Type))
				switch typ {
				case catalog.ProductSavings:
					savings++
				case catalog.ProductDeposit:
					deposits++
				case catalog.ProductCard:
					cards++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalog OK: %s\n", path)
			fmt.Fprintf(out, "  questions: %d\n", len(cat.Questions()))
			fmt.Fprintf(out, "  products:  %d (savings %d, deposits %d, cards %d)\n",
				len(cat.Products()), savings, deposits, cards)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "configs/survey-data.json", "catalog file to validate")
	return cmd
}
