package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/kondate/internal/domain/quantity"
)

func scaleCommand(opts *options) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "scale [lines...]",
		Short: "Scale ingredient lines from one serving count to another",
		Example: `  kondate scale --from 2 --to 4 "豚肉 200g" "醤油大さじ2"
  cat ingredients.txt | kondate scale --from 2 --to 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from <= 0 || to <= 0 {
				return errors.New("--from and --to must be positive")
			}

			lines, err := opts.lines(args)
			if err != nil {
				return err
			}

			scaled := quantity.Scale(lines, from, to)
			opts.logger.Debug("scaled lines",
				slog.Int("lines", len(lines)),
				slog.Int("from", from),
				slog.Int("to", to),
			)

			return opts.print(map[string]any{"servings": to, "ingredients": scaled}, func(w io.Writer) error {
				for _, line := range scaled {
					if _, err := fmt.Fprintln(w, line); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&from, "from", 2, "Servings the lines are written for")
	cmd.Flags().IntVar(&to, "to", 2, "Servings to scale to")

	return cmd
}

func mergeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "merge <a> <b>",
		Short:   "Combine two quantity strings of the same ingredient",
		Example: `  kondate merge 200g 150g`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			merged := quantity.Merge(args[0], args[1])

			return opts.print(map[string]string{"quantity": merged}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, merged)
				return err
			})
		},
	}
}

type categorized struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

func categorizeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "categorize [names...]",
		Short:   "Assign ingredient names to shopping categories",
		Example: `  kondate categorize 鶏もも肉 玉ねぎ 醤油`,
		RunE: func(_ *cobra.Command, args []string) error {
			names, err := opts.lines(args)
			if err != nil {
				return err
			}

			results := make([]categorized, 0, len(names))
			for _, name := range names {
				c := opts.categorizer.Categorize(name)
				results = append(results, categorized{Name: name, Category: string(c), Label: c.Label()})
			}

			return opts.print(results, func(w io.Writer) error {
				for _, r := range results {
					if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Label); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

type amountResult struct {
	Line       string               `json:"line"`
	Amount     *quantity.Amount     `json:"amount,omitempty"`
	Adjustment *quantity.Adjustment `json:"adjustment,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func amountsCommand(opts *options) *cobra.Command {
	var desired float64

	cmd := &cobra.Command{
		Use:   "amounts [lines...]",
		Short: "Extract the adjustable amount of each ingredient line",
		Long: `Extract the name and amount of each line. With --desired, the change
from the extracted amount to the desired one is checked and extreme
changes are reported.`,
		Example: `  kondate amounts "豚肉 200g" "卵: 2個"
  kondate amounts --desired 2500 "豚肉 200g"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := opts.lines(args)
			if err != nil {
				return err
			}

			check := cmd.Flags().Changed("desired")
			results := make([]amountResult, 0, len(lines))

			for _, line := range lines {
				results = append(results, extract(line, desired, check))
			}

			return opts.print(results, func(w io.Writer) error {
				for _, r := range results {
					if err := writeAmount(w, r); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&desired, "desired", 0, "Desired amount to check against each line")

	return cmd
}

func extract(line string, desired float64, check bool) amountResult {
	r := amountResult{Line: line}

	amount, ok := quantity.ExtractAmount(line)
	if !ok {
		return r
	}

	r.Amount = &amount

	if check {
		adj, err := quantity.CheckAdjustment(amount.Value, desired)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Adjustment = &adj
		}
	}

	return r
}

func writeAmount(w io.Writer, r amountResult) error {
	if r.Amount == nil {
		_, err := fmt.Fprintf(w, "%s\t-\n", r.Line)
		return err
	}

	line := fmt.Sprintf("%s\t%s\t%s\t%s", r.Amount.Name, r.Amount.Text,
		quantity.FormatQuantity(r.Amount.Value), r.Amount.Unit)

	switch {
	case r.Error != "":
		line += "\t" + r.Error
	case r.Adjustment != nil:
		line += "\tx" + strconv.FormatFloat(r.Adjustment.Ratio, 'f', -1, 64)
		if r.Adjustment.Warning != "" {
			line += "\t" + r.Adjustment.Warning
		}
	}

	_, err := fmt.Fprintln(w, line)

	return err
}
