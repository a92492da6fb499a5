package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashgrove/enqjrnl/pkg/config"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "jrnlctl",
	Short: "jrnlctl inspects and drives an enqueue journal segment",
	Long: `jrnlctl is a small operator tool for the enqjrnl write-ahead
journal codec: it appends test records to a segment, inspects one
back out validating every record's tail, and scans (recovers) a
segment that was left with a torn write at the end.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			cfg = config.DefaultConfig()
			return nil
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to
// happen once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringP("segment-dir", "d", "", "Segment directory (overrides config)")
}

// segmentDir resolves the effective segment directory for a command,
// preferring an explicit --segment-dir flag over the loaded config.
func segmentDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("segment-dir"); dir != "" {
		return dir
	}
	return cfg.SegmentDir
}
