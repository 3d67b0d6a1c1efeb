package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/createmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "createmap",
	Short: "Rebuild eperson create dates from logs and the guessed createmap",
	Long: `Merges log-derived account creation dates (eperson-create-from-logs.tsv)
with the guessed createmap (eperson-createmap.tsv) and prints one
"id<TAB>MM/DD/YY" line per createmap row to stdout.

Log dates always win. A guess is never allowed to post-date the next
account's resolved date.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRebuild(cmd.OutOrStdout(), "")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
