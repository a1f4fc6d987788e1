package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lanrat/recsort"
	"github.com/lanrat/recsort/diff"
)

var (
	diffKey    string
	diffFormat string
)

// diffCmd compares two record files by a key
var diffCmd = &cobra.Command{
	Use:   "diff <fileA> <fileB>",
	Short: "Compare two record files by the value under a field name",
	Long: `Sorts both files by the value stored under the given field name and
prints the records that appear in only one of them: "<" marks records only
in the first file, ">" records only in the second.

Example:
  recsort diff -k id yesterday.jsonl today.jsonl`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffKey, "key", "k", "", "Field name to compare by (required)")
	diffCmd.Flags().StringVar(&diffFormat, "format", "", "Record format: jsonl or csv (default: by file extension)")
	_ = diffCmd.MarkFlagRequired("key")
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	start := time.Now()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	aFormat, err := resolveFormat(diffFormat, args[0])
	if err != nil {
		return err
	}
	bFormat, err := resolveFormat(diffFormat, args[1])
	if err != nil {
		return err
	}

	aIn, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer aIn.Close()
	bIn, err := openInput(args[1])
	if err != nil {
		return err
	}
	defer bIn.Close()

	aRecords, aReadErrChan := readRecords(ctx, aIn, aFormat)
	bRecords, bReadErrChan := readRecords(ctx, bIn, bFormat)

	aSorter, aSorted, aErrChan := recsort.New(aRecords, diffKey, cfg)
	bSorter, bSorted, bErrChan := recsort.New(bRecords, diffKey, cfg)
	go aSorter.Sort(ctx)
	go bSorter.Sort(ctx)

	result, err := diff.ByKey(ctx, aSorted, bSorted, aErrChan, bErrChan, diffKey, diff.PrintDiff)
	if err != nil {
		return err
	}
	if err := <-aReadErrChan; err != nil {
		return err
	}
	if err := <-bReadErrChan; err != nil {
		return err
	}

	logger.Info("diff complete",
		zap.String("key", diffKey),
		zap.Uint64("only_a", result.ExtraA),
		zap.Uint64("only_b", result.ExtraB),
		zap.Uint64("common", result.Common),
		zap.Uint64("total_a", result.TotalA),
		zap.Uint64("total_b", result.TotalB),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
