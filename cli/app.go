package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"polyprompt/config"
	"polyprompt/dispatch"
	"polyprompt/mcp"
	"polyprompt/provider"
)

// app holds everything a command needs. setup fills the fields that are still
// nil, so tests can inject their own registry or config beforehand.
type app struct {
	configPath string
	envFiles   []string
	logLevel   string
	timeout    time.Duration

	cfg      *config.Config
	logger   *slog.Logger
	registry *provider.Registry
	service  *dispatch.Service
	tools    *mcp.Gateway

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp() *app {
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

func (a *app) settingsPath() string {
	if a.configPath != "" {
		return config.ExpandPath(a.configPath)
	}
	return config.GetSettingsFilePath()
}

// loadConfig reads .env files and the settings file once.
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	if err := config.LoadDotEnv(a.envFiles...); err != nil {
		return err
	}

	cfg, err := config.Load(a.settingsPath())
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	a.cfg = cfg
	if a.logger == nil {
		a.logger = cfg.NewLogger(a.errOut)
	}
	a.logger.Debug("[Config] loaded settings", "path", a.settingsPath(), "default_provider", cfg.DefaultProvider)
	return nil
}

// setupProviders builds the registry and dispatch service on first use.
func (a *app) setupProviders(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if a.registry == nil {
		a.registry = provider.InitializeRegistry(a.cfg, a.logger)
	}
	if a.service == nil {
		if a.tools == nil {
			tools, err := mcp.NewGateway(ctx, a.logger)
			if err != nil {
				return err
			}
			a.tools = tools
		}
		a.service = dispatch.New(a.registry, a.tools, a.logger)
	}
	return nil
}

func (a *app) close() {
	if a.tools != nil {
		if err := a.tools.Close(); err != nil {
			a.logger.Warn("[MCP] failed to close tool gateway", "error", err)
		}
		a.tools = nil
	}
}

// context returns the command context bounded by --timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return a.requestContext(a.sessionContext(cmd))
}

// sessionContext returns the command context without the --timeout bound, for
// commands that issue many requests.
func (a *app) sessionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requestContext bounds a single request by --timeout.
func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(parent, a.timeout)
	}
	return context.WithCancel(parent)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
