package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tinytasks/internal/services"
	"github.com/desertthunder/tinytasks/internal/shared"
	"github.com/desertthunder/tinytasks/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	apiURL     string
	store      services.TaskStore
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      services.TaskStore // overrides the HTTP store built from the config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Configure loads the config file named by --config and applies the global flags.
//
// A missing default config file is not an error; a missing file the user asked for is.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.configPath = path
		} else if cmd.IsSet("config") && !writesConfig(cmd) {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
	}

	if v := strings.TrimSpace(cmd.String("api-url")); v != "" {
		r.apiURL = strings.TrimRight(v, "/")
	}

	level := r.config.LogLevel()
	if cmd.IsSet("log-level") {
		parsed, err := log.ParseLevel(cmd.String("log-level"))
		if err != nil {
			return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidFlag, cmd.String("log-level"))
		}
		level = parsed
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// writesConfig reports whether the command line is `setup config`, which creates the file --config names.
func writesConfig(cmd *cli.Command) bool {
	args := cmd.Args().Slice()
	return len(args) >= 2 && args[0] == "setup" && args[1] == "config"
}

// BaseURL resolves the task resource URL: --api-url, then the environment, then the config file.
func (r *Runner) BaseURL() string {
	if r.apiURL != "" {
		return r.apiURL
	}
	return r.config.APIURL()
}

// Store returns the task store commands talk to.
func (r *Runner) Store() services.TaskStore {
	if r.store != nil {
		return r.store
	}
	r.logger.Debug("using remote task store", "url", r.BaseURL())
	return services.NewHTTPTaskStore(r.BaseURL(), r.httpClient)
}

// newEngine builds an engine over [Runner.Store] logging through the runner's logger.
func (r *Runner) newEngine(updates chan<- tasks.Update) *tasks.Engine {
	return tasks.NewEngine(r.Store(), tasks.EngineOpts{
		Updates: updates,
		Logger:  shared.WithLogger(r.logger, "component", "engine"),
	})
}

// withTimeout bounds ctx by the configured remote timeout, if any.
func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := r.config.Remote.Timeout.Duration; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// check turns a populated error slot into a command failure.
func (r *Runner) check(engine *tasks.Engine) error {
	err := engine.Err()
	if err == nil {
		return nil
	}
	if _, ok := services.AsTransportError(err); ok {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, engine.State().Error)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
