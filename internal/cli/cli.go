// Package cli implements the serpentine command-line interface.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/matzehuels/serpentine/pkg/buildinfo"
	"github.com/matzehuels/serpentine/pkg/cache"
	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "serpentine"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// verbose reports whether debug logging is on.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Serpentine paints chains of tangent arcs",
		Long:         `Serpentine is a generative art tool. It grows serpentine chains of tangent circular arcs from a shape seed, colors them from a color seed, and composites them onto a raster image.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			// The raster backend logs through slog.
			gg.SetLogger(slog.New(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A nil keyer uses the
// default key scheme.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer, logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), keyer, logger)
}

// newCache picks the artifact cache: Redis when SERPENTINE_REDIS_ADDR is set,
// otherwise a file cache. Any failure degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if addr := os.Getenv(config.EnvRedisAddr); addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr, Prefix: appName + ":"})
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", addr)
			return rc
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", addr, "error", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory: SERPENTINE_CACHE_DIR if set, otherwise
// the XDG standard (~/.cache/serpentine/).
func cacheDir() (string, error) {
	if dir := os.Getenv(config.EnvCacheDir); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
