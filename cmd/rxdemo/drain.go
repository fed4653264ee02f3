package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-rx/socket"
)

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Fill the ring, print the borrowed packets, release them, repeat",
	RunE:  runDrain,
}

func init() {
	drainCmd.Flags().Int("cycles", 2, "Number of drain/release cycles")
}

func runDrain(cmd *cobra.Command, _ []string) error {
	cycles, _ := cmd.Flags().GetInt("cycles")
	sock, logger, err := openSocket(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := sock.Close(); err != nil {
			logger.WithError(err).Error("close socket")
		}
	}()

	out := cmd.OutOrStdout()
	var held []*socket.Handle
	for c := 0; c < cycles; c++ {
		for {
			h, ok := sock.Receive()
			if !ok {
				break
			}
			held = append(held, h)
		}
		fmt.Fprintf(out, "cycle %d: %d/%d slots borrowed\n", c+1, len(held), sock.Cap())
		for _, h := range held {
			printHandle(out, h)
		}
		socket.ReleaseAll(held)
		held = held[:0]
	}
	return nil
}
