// Package cli implements the fixturefit command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturefit/pkg/buildinfo"
	"github.com/matzehuels/fixturefit/pkg/cache"
	"github.com/matzehuels/fixturefit/pkg/catalog"
	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fixturefit"

	// redisEnv names the environment variable holding a Redis URL.
	redisEnv = "FIXTUREFIT_REDIS_URL"
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

	// Persistent flags
	catalogPath string
	redisURL    string
	verbose     bool
	quiet       bool
	logFormat   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// ExitCode maps an error returned by a command to a process exit status:
// 0 on success, 130 on interrupt, 2 for bad input and 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case ferrors.IsInputError(err):
		return 2
	default:
		return 1
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "fixturefit lays out bathroom fixtures in a rectangular room",
		Long: `fixturefit places bathroom fixtures (toilet, sink, shower, bathtub, ...) in a
rectangular room with doors and windows. It searches many candidate layouts,
scores them against accessibility and ergonomics criteria and reports the best.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return c.configureLogger()
	}
	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")
	flags.StringVar(&c.logFormat, "log-format", "text", "log output format: text, json or logfmt")
	flags.StringVar(&c.catalogPath, "catalog", "", "fixture catalog TOML file (default: built-in catalog)")
	flags.StringVar(&c.redisURL, "redis", os.Getenv(redisEnv), "Redis URL for the result cache (env "+redisEnv+")")

	root.AddCommand(
		c.generateCommand(),
		c.scoreCommand(),
		c.spacesCommand(),
		c.catalogCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := backend.(*cache.RedisCache); shared {
		keyer = cache.WithScope(nil, appName)
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

// newCache picks the Redis backend when a URL is configured and the file
// cache otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, c.redisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadCatalog returns the catalog named by --catalog, or the built-in one.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	if c.catalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(c.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", c.catalogPath, err)
	}
	return cat, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fixturefit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Parsing Helpers
// =============================================================================

// parseRoom parses "WIDTHxDEPTH" or "WIDTHxDEPTHxHEIGHT" in centimetres.
func parseRoom(s string) (geometry.Room, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) < 2 || len(parts) > 3 {
		return geometry.Room{}, ferrors.New(ferrors.ErrCodeInvalidRoom, "room must be WIDTHxDEPTH[xHEIGHT], got %q", s)
	}
	dims := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.Room{}, ferrors.Wrap(ferrors.ErrCodeInvalidRoom, err, "room dimension %q", p)
		}
		dims[i] = v
	}
	room := geometry.Room{Width: dims[0], Depth: dims[1]}
	if len(dims) == 3 {
		room.Height = dims[2]
	}
	return room, room.Validate()
}

// parseOpening parses "WALL:OFFSET:WIDTH" plus, for windows, an optional
// ":SILL". The offset runs along the wall.
func parseOpening(kind geometry.OpeningKind, id, s string) (geometry.Opening, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	maxParts := 3
	if kind == geometry.KindWindow {
		maxParts = 4
	}
	if len(parts) < 3 || len(parts) > maxParts {
		return geometry.Opening{}, ferrors.New(ferrors.ErrCodeInvalidOpening, "%s must be WALL:OFFSET:WIDTH, got %q", kind, s)
	}
	nums := make([]int, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return geometry.Opening{}, ferrors.Wrap(ferrors.ErrCodeInvalidOpening, err, "%s %q", kind, s)
		}
		nums[i] = v
	}

	o := geometry.Opening{
		ID:    id,
		Kind:  kind,
		Wall:  geometry.Wall(strings.ToLower(parts[0])),
		Width: nums[1],
	}
	if o.Wall.RunsAlongX() {
		o.X = nums[0]
	} else {
		o.Y = nums[0]
	}
	if len(nums) == 3 {
		o.Sill = nums[2]
	}
	return o, nil
}

// parseWeights converts "criterion=weight" flag values.
func parseWeights(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidOptions, err, "weight %s=%s", k, v)
		}
		out[k] = f
	}
	return out, pipeline.ValidateWeights(out)
}
