package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/statestore/internal/config"
	ferrors "git.home.luguber.info/inful/statestore/internal/foundation/errors"
	"git.home.luguber.info/inful/statestore/internal/journal"
	"git.home.luguber.info/inful/statestore/internal/logfields"
	"git.home.luguber.info/inful/statestore/internal/metrics"
	"git.home.luguber.info/inful/statestore/internal/schedule"
	"git.home.luguber.info/inful/statestore/internal/store"
)

// Counter is the demo state.
type Counter struct {
	Value int `json:"value" yaml:"value"`
}

// Add returns an action adding step to the counter.
func Add(step int) store.Action[Counter] {
	return store.ActionFunc[Counter](func(c Counter) Counter {
		return Counter{Value: c.Value + step}
	})
}

// DemoCmd implements the 'demo' command.
type DemoCmd struct {
	Interval time.Duration `help:"Increment interval (overrides demo.interval)"`
	Step     int           `help:"Increment step (overrides demo.step)"`
	Count    int           `help:"Stop after this many increments; 0 runs until interrupted"`
	Metrics  bool          `help:"Serve Prometheus metrics (overrides metrics.enabled)"`
	Journal  string        `help:"Journal transitions to this sqlite DSN (overrides journal settings)"`
}

func (d *DemoCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := root.Setup()
	if err != nil {
		return err
	}
	d.override(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunDemo(ctx, cfg, d.Count, logger)
}

func (d *DemoCmd) override(cfg *config.Config) {
	if d.Interval > 0 {
		cfg.Demo.Interval = d.Interval
	}
	if d.Step != 0 {
		cfg.Demo.Step = d.Step
	}
	if d.Metrics {
		cfg.Metrics.Enabled = true
	}
	if d.Journal != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.Driver = config.JournalSQLite
		cfg.Journal.DSN = d.Journal
	}
}

// RunDemo runs the demo until ctx is done or count increments were observed.
func RunDemo(ctx context.Context, cfg *config.Config, count int, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []store.Option{store.WithName(cfg.Store.Name), store.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		opts = append(opts, store.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		stop := serveMetrics(cfg.Metrics, reg, logger)
		defer stop()
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(string(cfg.Journal.Driver), cfg.Journal.DSN)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := j.Close(); cerr != nil {
				logger.Warn("Closing journal failed", logfields.Error(cerr))
			}
		}()
		opts = append(opts, store.WithJournal(j))
	}

	st := store.New(opts...)
	defer st.Shutdown()

	if err := store.Provide(st, Counter{}); err != nil {
		return err
	}

	owner := store.NewToken()
	defer owner.Release()
	seen := 0
	_, err := store.Subscribe(st, owner, func(c Counter) {
		seen++
		logger.Info("Counter changed", slog.Int("value", c.Value))
		if count > 0 && seen >= count {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	sched, err := schedule.New(logger)
	if err != nil {
		return err
	}
	if _, err := schedule.Every(sched, st, cfg.Demo.Interval, "increment", Add(cfg.Demo.Step)); err != nil {
		return err
	}
	sched.Start()

	<-ctx.Done()

	if err := sched.Stop(); err != nil {
		logger.Warn("Stopping scheduler failed", logfields.Error(err))
	}
	final, _ := store.CurrentState[Counter](st)
	stats := st.Stats()
	logger.Info("Demo finished",
		slog.Int("value", final.Value),
		slog.Uint64("dispatched", stats.Dispatched),
		slog.Uint64("notified", stats.Notified))
	return nil
}

func serveMetrics(cfg config.MetricsConfig, reg *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.HTTPHandler(reg))
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", slog.String("addr", cfg.Listen), logfields.Path(cfg.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed",
				logfields.Error(ferrors.WrapError(err, ferrors.CategoryInternal, "serve metrics").Build()))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
