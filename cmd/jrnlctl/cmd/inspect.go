package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ashgrove/enqjrnl/pkg/jrnl"
	"github.com/ashgrove/enqjrnl/pkg/metrics"
	"github.com/ashgrove/enqjrnl/pkg/segment"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Walk the segment, printing every valid record",
	Long: `Inspect walks the segment file from the beginning (or --offset),
printing one debug line per validated record, and stops at the first
corrupt or torn record it encounters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt64("offset")

		m := metrics.NewCollector(nil)
		scanner, err := segment.NewScanner(filepath.Join(segmentDir(cmd), "enqjrnl.seg"), offset, m)
		if err != nil {
			return fmt.Errorf("failed to open segment: %w", err)
		}
		defer scanner.Close()

		var count int
		for {
			rec, err := scanner.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				var de *jrnl.DecodeError
				if errors.As(err, &de) {
					cmd.Printf("stopped at offset=%d: %v\n", scanner.Offset(), de)
					break
				}
				return fmt.Errorf("inspect failed: %w", err)
			}
			cmd.Println(rec.String())
			count++
		}

		cmd.Printf("inspected %d record(s)\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int64("offset", 0, "Byte offset to start inspecting from")
}
