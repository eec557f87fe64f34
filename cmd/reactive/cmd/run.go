package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/go-drift/reactive/cmd/reactive/internal/config"
	"github.com/go-drift/reactive/internal/logging"
	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/scheduler"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Mount configured hosts and drive the loop",
		Long: `Mount every host listed in reactive.yaml (or reactive.toml), connect
them, and drive the scheduling loop until interrupted.

Each committed render is logged. When attributes.dir is set, every host
reflects its attributes into <dir>/<id>.yaml; with attributes.watch, edits
to those files are applied to the running hosts.

Flags:
  --config DIR       Directory holding the configuration (default: project root)
  --duration D       Stop after D (for example 10s); overrides run.duration`,
		Usage: "reactive run [--config DIR] [--duration D]",
		Run:   runRun,
	})
}

type runOptions struct {
	configDir   string
	duration    time.Duration
	durationSet bool
}

func runRun(args []string) error {
	opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}

	root := opts.configDir
	if root == "" {
		root, err = config.FindProjectRoot()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}
	if opts.durationSet {
		cfg.Duration = opts.duration
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if cfg.LogLevelSet {
		logCfg.Level = cfg.LogLevel
	}
	logging.ApplyEnv(&logCfg, os.Getenv)
	logger := logging.New(cfg.AppName, logCfg)
	logging.Install(logger, cfg.Verbose)

	if len(cfg.Hosts) == 0 {
		logger.Warn().Str("root", root).Msg("no hosts configured")
		return nil
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var failures atomic.Int64
	capitan.Hook(core.SignalPassFailed, func(context.Context, *capitan.Event) {
		failures.Add(1)
	})
	capitan.Hook(core.SignalHostConnected, func(_ context.Context, e *capitan.Event) {
		id, _ := core.KeyHost.From(e)
		logger.Debug().Str("host", id).Msg("host connected")
	})
	defer capitan.Shutdown()

	loop := scheduler.New(scheduler.WithLogger(logger))
	owner := core.NewOwner(loop, core.WithLogger(logger))
	owner.OnCommit = func(h *core.Host, output core.RenderOutput) {
		logger.Info().Str("host", h.ID()).Int("pass", h.Passes()).Msgf("%v", output)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	hosts := make([]*core.Host, 0, len(cfg.Hosts))
	defer func() {
		for _, h := range hosts {
			h.Dispose()
		}
	}()

	for _, hc := range cfg.Hosts {
		h, err := mountHost(ctx, owner, reg, cfg, hc)
		if err != nil {
			return fmt.Errorf("host %s: %w", hc.ID, err)
		}
		hosts = append(hosts, h)
	}

	logger.Info().Int("hosts", len(hosts)).Dur("duration", cfg.Duration).Msg("loop running")
	err = loop.Run(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	logger.Info().
		Uint64("turns", loop.Turns()).
		Int64("failed_passes", failures.Load()).
		Msg("loop stopped")
	return nil
}

func mountHost(ctx context.Context, owner *core.Owner, reg *core.Registry, cfg *config.Resolved, hc config.Host) (*core.Host, error) {
	src, watcher, err := hostSource(cfg, hc)
	if err != nil {
		return nil, err
	}

	h, err := reg.Create(owner, hc.Tag, core.WithID(hc.ID), core.WithSource(src))
	if err != nil {
		return nil, err
	}

	if watcher != nil {
		if err := h.WatchAttributes(ctx, watcher); err != nil {
			h.Dispose()
			return nil, fmt.Errorf("watch attributes: %w", err)
		}
	}
	if hc.Connected {
		h.Connect()
	}
	return h, nil
}

// hostSource returns the attribute source for hc, seeding configured
// attributes that the source does not hold yet.
func hostSource(cfg *config.Resolved, hc config.Host) (attr.Source, attr.Watcher, error) {
	if cfg.AttrDir == "" {
		return attr.NewMapSource(hc.Attributes), nil, nil
	}

	if err := os.MkdirAll(cfg.AttrDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create attribute dir: %w", err)
	}
	fs, err := attr.OpenFileSource(filepath.Join(cfg.AttrDir, hc.ID+".yaml"))
	if err != nil {
		return nil, nil, err
	}
	for name, value := range hc.Attributes {
		if _, ok := fs.Get(name); ok {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return nil, nil, err
		}
	}
	if !cfg.Watch {
		return fs, nil, nil
	}
	return fs, fs, nil
}

func parseRunArgs(args []string) (runOptions, error) {
	var opts runOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--config requires a directory path")
			}
			opts.configDir = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.configDir = strings.TrimPrefix(arg, "--config=")
		case arg == "--duration":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--duration requires a value")
			}
			if err := opts.setDuration(args[i+1]); err != nil {
				return opts, err
			}
			i++
		case strings.HasPrefix(arg, "--duration="):
			if err := opts.setDuration(strings.TrimPrefix(arg, "--duration=")); err != nil {
				return opts, err
			}
		default:
			return opts, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	return opts, nil
}

func (o *runOptions) setDuration(raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid --duration: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("invalid --duration: must not be negative")
	}
	o.duration = d
	o.durationSet = true
	return nil
}
