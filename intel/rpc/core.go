// Package rpc implements the Protocol Dispatcher (C9): a line-delimited
// JSON-RPC 2.0 server over stdio, the tool catalog, and the handler table
// that composes every other component (spec §4.9, §6.2, §6.4).
package rpc

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ohenrik/dotnet-intel-server/intel/config"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
	"github.com/ohenrik/dotnet-intel-server/intel/workspace"
)

// Core owns the single shared Workspace Cache and config/logger handles; the
// Dispatcher passes it explicitly to every handler rather than relying on
// module-level state (spec §9's "ambient global state" redesign note).
type Core struct {
	Cache  *workspace.Cache
	Config config.Config
	Logger *zap.Logger
}

// NewCore builds a Core from configuration, grounded on the teacher's
// pattern of constructing one long-lived value at startup and threading it
// through every handler.
func NewCore(cfg config.Config, logger *zap.Logger) *Core {
	return &Core{
		Cache:  workspace.NewCache(cfg.EnableSemanticCache),
		Config: cfg,
		Logger: logger,
	}
}

// AutoloadSolutionPath loads cfg.SolutionPath at startup if set (spec §4.9).
// Failures are logged but never abort startup.
func (c *Core) AutoloadSolutionPath() {
	if c.Config.SolutionPath == "" {
		return
	}
	if _, err := c.Cache.Load(c.Config.SolutionPath); err != nil {
		c.Logger.Warn("autoload of SOLUTION_PATH failed", zap.String("path", c.Config.SolutionPath), zap.Error(err))
	}
}

// index rebuilds the solution-wide symbol index fresh for each request that
// needs one. The compiler-library stand-in has no incremental recompilation
// to exploit, so this trades latency for always-fresh results (documented in
// DESIGN.md) rather than adding invalidation logic for a fixed-size index.
func (c *Core) index() (*symbols.Index, *workspace.Solution, error) {
	sol, err := c.Cache.Solution()
	if err != nil {
		return nil, nil, err
	}
	idx, err := symbols.Build(sol)
	if err != nil {
		return nil, nil, err
	}
	return idx, sol, nil
}

// writeFile is the shared apply-time file writer used by refactor operations.
func writeFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}
