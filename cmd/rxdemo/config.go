package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-rx/control"
	"github.com/momentics/hioload-rx/socket"
)

// loadConfig resolves defaults, the optional --config file, then flag overrides.
func loadConfig(cmd *cobra.Command) (*control.Config, error) {
	cfg := control.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := control.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity, _ = flags.GetInt("capacity")
	}
	if flags.Changed("frame-size") {
		cfg.FrameSize, _ = flags.GetInt("frame-size")
	}
	if noMmap, _ := flags.GetBool("no-mmap"); noMmap {
		cfg.UseMmap = false
	}
	if lvl, _ := flags.GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, cfg.Validate()
}

// openSocket builds the socket and the logger it reports through.
func openSocket(cmd *cobra.Command) (*socket.Socket, *logrus.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	logger.SetOutput(cmd.ErrOrStderr())
	sock, err := socket.New(cfg, socket.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return sock, logger, nil
}
