package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/momentics/hioload-rx/poller"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run the poll-mode consumer against the ring",
	Long: `Runs the poll-mode consumer. Each handled packet is held in a FIFO window;
once the window exceeds --hold the oldest packet is released. With --duration
the consumer runs until the deadline, otherwise it performs --rounds polls.
--cpu pins the polling thread in both modes.`,
	RunE: runPoll,
}

func init() {
	f := pollCmd.Flags()
	def := poller.DefaultConfig()
	f.Int("rounds", 10, "Number of Poll calls when --duration is zero")
	f.Int("batch", def.Batch, "Max packets per poll")
	f.Int("hold", def.HoldLimit, "Packets kept live before the oldest is released")
	f.Int("cpu", def.CPU, "Pin the polling thread to this CPU (-1 disables)")
	f.Duration("duration", 0, "Run the consumer loop for this long")
}

func runPoll(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	rounds, _ := f.GetInt("rounds")
	duration, _ := f.GetDuration("duration")

	cfg := poller.DefaultConfig()
	cfg.Batch, _ = f.GetInt("batch")
	cfg.HoldLimit, _ = f.GetInt("hold")
	cfg.CPU, _ = f.GetInt("cpu")
	if err := cfg.Validate(); err != nil {
		return err
	}

	sock, logger, err := openSocket(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := sock.Close(); err != nil {
			logger.WithError(err).Error("close socket")
		}
	}()

	p, err := poller.New(sock, nil, cfg, logger)
	if err != nil {
		return err
	}
	start := time.Now()
	if duration > 0 {
		ctx, cancel := context.WithTimeout(cmd.Context(), duration)
		defer cancel()
		if err := p.Run(ctx); err != nil {
			return err
		}
	} else {
		if err := p.Pin(); err != nil {
			logger.WithError(err).WithField("cpu", cfg.CPU).Warn("cpu pinning failed")
		}
		for i := 0; i < rounds; i++ {
			if _, err := p.Poll(cfg.Batch); err != nil {
				p.Flush()
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	printSlots(out, sock.Snapshot())
	p.Flush()
	printStats(out, sock.Control().Stats(), p.Stats())
	logger.WithField("elapsed", time.Since(start)).Debug("poll finished")
	return nil
}
