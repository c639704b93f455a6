package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bft-labs/tablestress/internal/adapters/amqp"
	"github.com/bft-labs/tablestress/internal/adapters/hadoop"
	"github.com/bft-labs/tablestress/internal/adapters/runner"
	"github.com/bft-labs/tablestress/internal/app"
	"github.com/bft-labs/tablestress/internal/cliconfig"
	"github.com/bft-labs/tablestress/internal/dispatch"
	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ops"
	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/internal/report"
	"github.com/bft-labs/tablestress/pkg/log"
)

// env is the wiring shared by all subcommands, built once the layered
// configuration is known.
type env struct {
	cfg    cliconfig.Config
	zlog   zerolog.Logger
	logger log.Logger

	registry *prometheus.Registry
	metrics  *dispatch.Metrics
	server   *http.Server

	lib    *ops.Library
	lister *hadoop.Lister

	closers   []func() error
	closeOnce sync.Once
	closed    bool
}

func newEnv(cfg cliconfig.Config, zlog zerolog.Logger) *env {
	logger := log.NewZerologAdapterWithLogger(zlog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var exec ports.CommandRunner
	if cfg.Remote() {
		exec = cfg.SSHRunner()
	} else {
		exec = runner.NewLocalRunner()
	}
	if cfg.DryRun {
		exec = runner.NewDryRunner(logger).WithQueries(exec, func(cmd domain.Command) bool {
			return hadoop.IsListing(cmd) || ops.IsQuery(cmd)
		})
	}

	return &env{
		cfg:      cfg,
		zlog:     zlog,
		logger:   logger,
		registry: reg,
		metrics:  dispatch.NewMetrics(reg),
		lib:      ops.New(cfg.OpsConfig(), exec, logger.With(log.String("component", "ops"))),
		lister:   hadoop.NewLister(exec, cfg.HadoopCLI, logger.With(log.String("component", "lister"))),
	}
}

// app builds the App with status records going to sink.
func (e *env) app(sink ports.StatusSink) *app.App {
	return app.New(e.lib, e.lister, sink, e.dispatcher(e.cfg.Workers), e.dispatcher(e.cfg.StatusWorkers), e.logger)
}

func (e *env) dispatcher(workers int) *dispatch.Dispatcher {
	return dispatch.New(workers,
		dispatch.WithLogger(e.logger.With(log.String("component", "dispatch"))),
		dispatch.WithMetrics(e.metrics),
		dispatch.WithDeadline(e.cfg.Deadline),
	)
}

// statusSink returns the printer, plus the broker publisher when publish is
// set and a broker URL is configured.
func (e *env) statusSink(printer *report.Printer, publish bool) (ports.StatusSink, error) {
	if !publish {
		return printer, nil
	}
	if e.cfg.AMQPURL == "" {
		return nil, errors.New("--publish requires amqp_url (TABLESTRESS_AMQP_URL or config file)")
	}
	pub, err := amqp.Dial(e.cfg.AMQPURL, e.cfg.AMQPExchange, e.logger.With(log.String("component", "amqp")))
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, pub.Close)
	return report.MultiSink{printer, pub}, nil
}

// serveMetrics starts /metrics and /healthz on the configured address.
func (e *env) serveMetrics() {
	if e.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry}))

	e.server = &http.Server{Addr: e.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.zlog.Info().Str("addr", e.cfg.MetricsAddr).Msg("metrics server listening")
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.zlog.Error().Err(err).Msg("metrics server")
		}
	}()
}

// close releases broker connections and stops the metrics server. Only the
// first call has an effect.
func (e *env) close() {
	e.closeOnce.Do(e.release)
}

func (e *env) release() {
	e.closed = true
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.zlog.Warn().Err(err).Msg("close")
		}
	}
	if e.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.server.Shutdown(ctx); err != nil {
			e.zlog.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
}

func logSummary(zlog zerolog.Logger, s domain.BatchSummary) {
	ev := zlog.Info()
	if s.Failed > 0 || s.Skipped > 0 {
		ev = zlog.Warn()
	}
	ev.Str("batch_id", s.BatchID).
		Str("op", s.Op).
		Int("items", s.Items).
		Int("succeeded", s.Succeeded()).
		Int("failed", s.Failed).
		Int("skipped", s.Skipped).
		Dur("elapsed", s.Elapsed).
		Msg("done")
}
