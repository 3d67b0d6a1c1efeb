package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/createmap/internal/createmap"
	"github.com/sells-group/createmap/internal/store"
)

var syncDryRun bool

// openAccountSource is swapped out in tests.
var openAccountSource = store.Open

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add database accounts missing from the createmap with today's date",
	Long: `Reads the createmap, lists every eperson id in the database, dates each
id not yet in the createmap as created today, and rewrites the createmap
sorted by id. Run regularly so new accounts get a close-enough create date.

Examples:
  # Preview the rewritten createmap without touching the file
  createmap sync --dry-run

  # SQLite copy of the eperson table
  CREATEMAP_STORE_DRIVER=sqlite CREATEMAP_STORE_DATABASE_URL=dspace.db createmap sync`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		l, err := createmap.LoadLookup(cfg.Files.Createmap, true)
		if err != nil {
			return eris.Wrap(err, "sync: load createmap")
		}

		src, err := openAccountSource(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "sync: open store")
		}
		defer src.Close() //nolint:errcheck

		ids, err := src.ListAccountIDs(ctx)
		if err != nil {
			return eris.Wrap(err, "sync: list accounts")
		}

		before := l.Len()
		added := l.AddMissing(ids, now())
		zap.L().Info("sync: accounts reconciled",
			zap.Int("createmap", before),
			zap.Int("database", len(ids)),
			zap.Int("added", added),
		)

		recs := l.Records()
		if syncDryRun {
			return createmap.WriteRecords(cmd.OutOrStdout(), recs)
		}

		err = createmap.WriteFileAtomic(cfg.Files.Createmap, func(w io.Writer) error {
			return createmap.WriteRecords(w, recs)
		})
		if err != nil {
			return eris.Wrap(err, "sync: write createmap")
		}
		zap.L().Info("sync: wrote createmap", zap.String("file", cfg.Files.Createmap), zap.Int("rows", len(recs)))
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "print the rewritten createmap instead of writing it")
	rootCmd.AddCommand(syncCmd)
}
