package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/modelcache/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove expired records from the disk cache",
		Long: "Remove records older than --max-age and, if --max-bytes is set, the oldest\n" +
			"records until the cache fits. Unset flags fall back to the configuration file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts app.CleanOptions

			if cmd.Flags().Changed("max-age") {
				maxAge, _ := cmd.Flags().GetDuration("max-age")
				opts.MaxAge = &maxAge
			}

			if cmd.Flags().Changed("max-bytes") {
				raw, _ := cmd.Flags().GetString("max-bytes")
				n, err := humanize.ParseBytes(raw)
				if err != nil {
					return zerr.With(zerr.Wrap(err, "invalid --max-bytes"), "value", raw)
				}
				limit := int64(n) //nolint:gosec // Parsed sizes stay far below MaxInt64
				opts.MaxBytes = &limit
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().Duration("max-age", 0, "Remove records written longer ago than this (e.g. 72h)")
	cmd.Flags().String("max-bytes", "", "Shrink the cache to at most this size (e.g. 2GiB, 0 removes everything)")

	return cmd
}
