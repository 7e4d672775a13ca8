package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("h2reflect %s@%s %s/%s %s\n",
			version, gitCommit, runtime.GOOS, runtime.GOARCH, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
