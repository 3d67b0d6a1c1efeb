package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/createmap/internal/createmap"
)

var rebuildOutput string

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Merge log dates into the guessed createmap",
	Long: `Same as running createmap with no arguments. With --output the merged
table is written to that file (atomically) instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRebuild(cmd.OutOrStdout(), rebuildOutput)
	},
}

func runRebuild(out io.Writer, outputPath string) error {
	if err := cfg.Validate("rebuild"); err != nil {
		return err
	}

	exact, err := createmap.ReadExactDates(cfg.Files.Logs)
	if err != nil {
		return eris.Wrap(err, "rebuild: read log dates")
	}
	zap.L().Info("loaded log dates", zap.String("file", cfg.Files.Logs), zap.Int("accounts", len(exact)))

	guesses, err := createmap.ReadGuesses(cfg.Files.Createmap)
	if err != nil {
		return eris.Wrap(err, "rebuild: read createmap")
	}
	zap.L().Info("loaded createmap", zap.String("file", cfg.Files.Createmap), zap.Int("rows", len(guesses)))

	recs, err := createmap.Merge(exact, guesses)
	if err != nil {
		return eris.Wrap(err, "rebuild: merge")
	}

	counts := createmap.Counts(recs)
	zap.L().Info("merge complete",
		zap.Int("rows", len(recs)),
		zap.Int("exact", counts[createmap.SourceExact]),
		zap.Int("capped", counts[createmap.SourceCapped]),
		zap.Int("guess", counts[createmap.SourceGuess]),
	)

	if outputPath == "" {
		return createmap.WriteRecords(out, recs)
	}

	err = createmap.WriteFileAtomic(outputPath, func(w io.Writer) error {
		return createmap.WriteRecords(w, recs)
	})
	if err != nil {
		return eris.Wrap(err, "rebuild: write output")
	}
	zap.L().Info("wrote createmap", zap.String("file", outputPath), zap.Int("rows", len(recs)))
	return nil
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildOutput, "output", "", "write the merged table to this file instead of stdout")
	rootCmd.AddCommand(rebuildCmd)
}
