package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tableqa/internal/config"
	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/qa"
	"github.com/dbsmedya/tableqa/internal/trackdb"
)

var labelsCmd = &cobra.Command{
	Use:   "labels db.track",
	Short: "Show the labels of a track and its parents",
	Long: `Labels walks the trackDb parent chain of a track and prints every
shortLabel and longLabel with its length against the configured limits.

Example:
  tableqa labels hg38.knownGene`,
	Args:         cobra.ExactArgs(1),
	RunE:         runLabels,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	track, err := qa.ParseTable(args[0], cfg.Database.Database)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signalContext(func(sig os.Signal) {
		log.Warnw("Received shutdown signal - stopping label lookup", "signal", sig.String())
	})
	defer cancel()

	runner := &extcmd.ExecRunner{}

	var resolvers qa.ResolverFactory
	if cfg.Metadata.Source == config.MetadataSourceTrackDB {
		dbManager, err := connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer dbManager.Close()
		resolvers = newResolverFactory(cfg.Metadata, dbManager.DB, runner)
	} else {
		resolvers = newResolverFactory(cfg.Metadata, nil, runner)
	}

	labels, err := trackdb.CollectLabels(ctx, resolvers(track.DB), track.Name)
	if err != nil {
		return err
	}

	if over := writeLabelReport(cmd.OutOrStdout(), track.String(), labels, cfg.Checks); over > 0 {
		return fmt.Errorf("%d label(s) over the limit", over)
	}
	return nil
}

// writeLabelReport prints each label with its length and returns how many
// exceed their limit.
func writeLabelReport(w io.Writer, track string, labels trackdb.Labels, checks config.ChecksConfig) int {
	over := 0
	section := func(name string, values []string, limit int) {
		fmt.Fprintf(w, "%s (limit %d):\n", name, limit)
		for _, v := range values {
			mark := ""
			if qa.LabelTooLong(v, limit) {
				mark = "  TOO LONG"
				over++
			}
			fmt.Fprintf(w, "  %3d  %s%s\n", qa.LabelLength(v), v, mark)
		}
	}

	fmt.Fprintf(w, "%s\n", track)
	section(trackdb.AttrShortLabel, labels.Short, checks.ShortLabelLimit)
	section(trackdb.AttrLongLabel, labels.Long, checks.LongLabelLimit)
	return over
}
