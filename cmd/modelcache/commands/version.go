package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modelcache/internal/build"
	"go.trai.ch/modelcache/internal/core/domain"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application and record format versions",
		Long: "Print the build version and the on-disk record format version.\n" +
			"Caches written with a different record format are ignored and rebuilt.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit: %s, date: %s)\nrecord format v%d\n",
				domain.AppName, build.Version, build.Commit, build.Date, domain.RecordFormatVersion)
		},
	}
}
