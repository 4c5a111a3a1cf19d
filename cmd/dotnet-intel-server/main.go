// Command dotnet-intel-server runs the code-intelligence service: a
// line-delimited JSON-RPC server over stdio (spec §4.9, §6). Configuration
// is primarily environment-driven (spec §6.3); the CLI layer only exposes a
// --solution override and a --version/--help surface on top of that, the
// same division the teacher's command entrypoints use between env config
// and flags.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ohenrik/dotnet-intel-server/intel/config"
	"github.com/ohenrik/dotnet-intel-server/intel/deadcode"
	"github.com/ohenrik/dotnet-intel-server/intel/logging"
	"github.com/ohenrik/dotnet-intel-server/intel/rpc"
)

func main() {
	cmd := &cli.Command{
		Name:    "dotnet-intel-server",
		Usage:   "expose semantic operations over a loaded .NET solution via JSON-RPC on stdio",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "solution",
				Usage: "path to a .sln or .csproj to load at startup (overrides SOLUTION_PATH)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dotnet-intel-server:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()
	if sol := cmd.String("solution"); sol != "" {
		cfg.SolutionPath = sol
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if mf, err := config.LoadMarkerFile(cfg.DeadCodeMarkersPath); err != nil {
		logger.Warn("failed to load DOTNET_INTEL_CONFIG marker file", zap.String("path", cfg.DeadCodeMarkersPath), zap.Error(err))
	} else {
		deadcode.RegisterMarkers(mf.DeadCode.AdditionalBaseMarkers, mf.DeadCode.AdditionalAttributeMarkers)
	}

	core := rpc.NewCore(cfg, logger)
	core.AutoloadSolutionPath()

	logger.Info("dotnet-intel-server starting", zap.String("solutionPath", cfg.SolutionPath))
	return rpc.Serve(os.Stdin, os.Stdout, core)
}
