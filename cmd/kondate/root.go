package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	json     bool
	logLevel string

	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	categorizer *ingredient.Categorizer
}

// RootCommand creates the kondate command tree.
func RootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{in: in, out: out}

	rootCmd := &cobra.Command{
		Use:           "kondate",
		Short:         "Scale, merge and categorize Japanese recipe ingredients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			opts.logger = logging.NewWithWriter(&logging.Config{
				Level:   opts.logLevel,
				Format:  "pretty",
				Service: "kondate",
			}, errOut)
			opts.categorizer = ingredient.NewDefaultCategorizer()
		},
	}

	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		scaleCommand(opts),
		mergeCommand(opts),
		categorizeCommand(opts),
		amountsCommand(opts),
	)

	return rootCmd
}

// lines returns args, or the non-blank lines of stdin when there are none.
func (o *options) lines(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var lines []string

	scanner := bufio.NewScanner(o.in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}

	return lines, nil
}

// print writes v as indented JSON when --json is set, and text otherwise.
func (o *options) print(v any, text func(w io.Writer) error) error {
	if !o.json {
		return text(o.out)
	}

	enc := json.NewEncoder(o.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
