package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"sqshade/internal/app"
	"sqshade/internal/config"
	"sqshade/internal/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "shade failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("shade", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.WithFlags(fs))
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "shade"})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	if cfg.Preview.Out != "" {
		return render.SnapshotToFile(cfg, logger)
	}
	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	return application.Run()
}
