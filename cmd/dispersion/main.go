package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/DivakarGC/rocketsim"
	"github.com/DivakarGC/rocketsim/internal/metrics"
	kitlog "github.com/go-kit/kit/log"
)

// This code runs a Monte Carlo analysis of the scenario's rocket.

var (
	scenario    string
	runs        int
	workers     int
	metricsAddr string
)

func init() {
	flag.StringVar(&scenario, "scenario", "", "flight scenario TOML file (defaults to the reference rocket)")
	flag.IntVar(&runs, "runs", 0, "number of runs, overrides the scenario")
	flag.IntVar(&workers, "workers", 0, "number of workers, overrides the scenario")
	flag.StringVar(&metricsAddr, "metrics", "", "serve the Prometheus metrics on this address (e.g. :9090) until interrupted")
}

func main() {
	flag.Parse()
	sc := rocketsim.DefaultScenario()
	if scenario != "" {
		var err error
		if sc, err = rocketsim.LoadScenario(scenario); err != nil {
			log.Fatalf("could not load scenario: %s", err)
		}
	}
	if runs > 0 {
		sc.Dispersion.Runs = runs
	}
	if workers > 0 {
		sc.Dispersion.Workers = workers
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var srv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("metrics server: %s", err)
			}
		}()
		logger.Log("level", "info", "subsys", "metrics", "addr", metricsAddr)
	}

	start := time.Now()
	res, err := sc.Dispersion.Run(ctx, sc.Rocket, sc.Step, sc.Duration, sc.Scheme, logger)
	if err != nil {
		log.Fatalf("dispersion failed: %s", err)
	}
	logger.Log("level", "notice", "subsys", "dispersion", "rocket", sc.Rocket.Name, "runs", len(res.Runs), "invalid", res.Invalid, "crashed", res.Crashed, "diverged", res.Diverged,
		"apogee(m)", res.ApogeeMean, "σ(m)", res.ApogeeStdDev, "min(m)", res.ApogeeMin, "max(m)", res.ApogeeMax, "apogee(s)", res.ApogeeTimeMean, "took", time.Since(start))

	if srv != nil {
		// Keep serving the metrics until interrupted.
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log("level", "warning", "subsys", "metrics", "err", err)
		}
	}
}
