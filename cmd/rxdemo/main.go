package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rxdemo",
	Short: "Zero-copy RX ring socket demonstration driver",
	Long: `Drives an in-process RX ring socket:

- drain: fill the whole ring, print every borrowed packet, release, repeat
- poll: run the poll-mode consumer with a bounded hold window and print slot state`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(drainCmd)
	rootCmd.AddCommand(pollCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.Int("capacity", 0, "Ring slot count (overrides config)")
	pf.Int("frame-size", 0, "Bytes per slot frame (overrides config)")
	pf.Bool("no-mmap", false, "Allocate the slot arena on the heap")
}
