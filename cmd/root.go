package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/campusmap/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "campusmap",
	Short: "Interactive campus map with a searchable location directory",
	Long: `campusmap serves an interactive campus map: search a location, browse a
category, get walking routes (optionally from your live position) and, after
logging in with a university account, see each location's contact details.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
