package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/seitarof/gometa/internal/catalog"
	"github.com/seitarof/gometa/internal/cli"
	ilog "github.com/seitarof/gometa/internal/log"
	"github.com/seitarof/gometa/internal/matcher"
	"github.com/seitarof/gometa/internal/report"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return 0
	}

	logger, closers, err := ilog.SetupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	f, err := report.NewFormatter(cfg.Format, cfg.NoColor)
	if err != nil {
		logger.Error("invalid format", zap.Error(err))
		return 2
	}

	runner := cli.NewRunner(
		catalog.New(catalog.WithLogger(logger)),
		matcher.NewClassMatcher(),
		matcher.NewMemberMatcher(),
		report.New(f, report.NewWriter(os.Stdout)),
		logger,
		os.Stdout,
	)
	if err := runner.Run(cfg); err != nil {
		logger.Error("metainspect failed", zap.Error(err))
		return 1
	}
	return 0
}
