package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lanrat/recsort"
)

var (
	uniqKey    string
	uniqInput  string
	uniqOutput string
	uniqFormat string
)

// uniqCmd sorts a record file and drops records with duplicate key values
var uniqCmd = &cobra.Command{
	Use:   "uniq",
	Short: "Sort a record file and drop records with duplicate key values",
	Long: `Sorts records by the value stored under the given field name, then keeps
only the first record of every group of equal values.

Example:
  recsort uniq -k email -i signups.jsonl -o unique.jsonl`,
	RunE: runUniq,
}

func init() {
	uniqCmd.Flags().StringVarP(&uniqKey, "key", "k", "", "Field name to deduplicate by (required)")
	uniqCmd.Flags().StringVarP(&uniqInput, "input", "i", "", "Input file (default: stdin)")
	uniqCmd.Flags().StringVarP(&uniqOutput, "output", "o", "", "Output file (default: stdout)")
	uniqCmd.Flags().StringVar(&uniqFormat, "format", "", "Record format: jsonl or csv (default: by file extension)")
	_ = uniqCmd.MarkFlagRequired("key")
}

func runUniq(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	start := time.Now()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	format, err := resolveFormat(uniqFormat, uniqInput)
	if err != nil {
		return err
	}

	in, err := openInput(uniqInput)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(uniqOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	records, readErrChan := readRecords(ctx, in, format)
	sorter, sorted, sortErrChan := recsort.New(records, uniqKey, cfg)
	go sorter.Sort(ctx)

	count, err := writeRecords(out, format, recsort.UniqByKey(sorted, uniqKey))
	if err != nil {
		return err
	}
	// the sorter error first: on failure the cancel releases the reader
	if err := <-sortErrChan; err != nil {
		return err
	}
	if err := <-readErrChan; err != nil {
		return err
	}

	logger.Info("uniq complete",
		zap.String("key", uniqKey),
		zap.Int("records", count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
