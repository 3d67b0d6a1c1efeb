package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/createmap/internal/createmap"
)

var (
	lookupID         int
	lookupLastActive string
)

// now is swapped out in tests.
var now = time.Now

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Print the end of an account's purge grace window",
	Long: `Takes the account's last-active date (--last-active), or its createmap
date, or today, and adds lookup.grace_months calendar months.

Output: id<TAB>YYYY-MM-DD`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("lookup"); err != nil {
			return err
		}

		var lastActive *time.Time
		if lookupLastActive != "" {
			t, err := createmap.ParseLogDate(lookupLastActive)
			if err != nil {
				return eris.Wrapf(err, "lookup: invalid --last-active %q", lookupLastActive)
			}
			lastActive = &t
		}

		l, err := createmap.LoadLookup(cfg.Files.Createmap, false)
		if err != nil {
			return eris.Wrap(err, "lookup: load createmap")
		}

		until := l.LastActiveDate(lookupID, lastActive, now(), cfg.Lookup.GraceMonths)
		_, known := l.Date(lookupID)
		zap.L().Debug("lookup",
			zap.Int("id", lookupID),
			zap.Bool("in_createmap", known),
			zap.Bool("last_active_given", lastActive != nil),
			zap.Time("until", until),
		)

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", lookupID, until.Format(createmap.LogDateLayout))
		return err
	},
}

func init() {
	lookupCmd.Flags().IntVar(&lookupID, "id", 0, "eperson id (required)")
	lookupCmd.Flags().StringVar(&lookupLastActive, "last-active", "", "last login date, YYYY-MM-DD")
	_ = lookupCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(lookupCmd)
}
