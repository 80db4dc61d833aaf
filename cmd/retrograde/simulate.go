package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wooyong8969/retrograde"
	"github.com/wooyong8969/retrograde/render"
	"github.com/wooyong8969/retrograde/stream"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Sun, Earth and Mars simulation",
	RunE:  runSimulate,
}

func init() {
	flags := simulateCmd.Flags()
	flags.Uint64("ticks", 0, "number of ticks (days by default), 0 to run until interrupted")
	flags.Float64("fps", 60, "ticks per second, 0 to run as fast as possible")
	flags.Float64("dt", retrograde.Day, "time step in seconds")
	flags.Bool("reference", false, "propagate a two-body reference orbit next to each body and report the drift")
	flags.String("gif", "", "write the animation to this GIF file")
	flags.Int("every", 1, "keep one GIF frame every so many ticks")
	flags.String("csv", "", "write the trails to this CSV file")
	flags.Bool("cosmo", false, "write Cosmographia files in --dir")
	flags.String("dir", ".", "output directory of the Cosmographia files")
	flags.String("listen", "", "stream the frames over WebSocket on this address (e.g. :8080)")
	flags.String("metrics", "", "expose Prometheus metrics on this address (e.g. :9090)")
	for key, flag := range map[string]string{
		"simulation.ticks":     "ticks",
		"simulation.fps":       "fps",
		"simulation.dt":        "dt",
		"simulation.reference": "reference",
		"export.gif":           "gif",
		"export.every":         "every",
		"export.csv":           "csv",
		"export.cosmo":         "cosmo",
		"export.dir":           "dir",
		"server.listen":        "listen",
		"server.metrics":       "metrics",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := retrograde.NewLogger(os.Stdout)
	sc, err := retrograde.ScenarioFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	if verbose {
		logger.Log("level", "debug", "subsys", "conf", "dt(s)", sc.Dt, "epoch", sc.Epoch, "fps", sc.FPS, "ticks", sc.Ticks, "bodies", len(sc.Bodies))
	}

	sim, err := retrograde.NewSimulation(sc, logger)
	if err != nil {
		return err
	}

	sinks, files, err := openOutputs(sc, logger)
	if err != nil {
		return err
	}
	defer closeAll(files)
	for _, sink := range sinks {
		sim.AddSink(sink)
	}

	var servers []*http.Server
	if sc.Server.Listen != "" {
		hub := stream.NewHub(logger)
		sim.AddSink(hub)
		mux := http.NewServeMux()
		mux.Handle("/frames", hub)
		servers = append(servers, serve(sc.Server.Listen, mux, logger))
	}
	if sc.Server.Metrics != "" {
		reg := prometheus.NewRegistry()
		sim.Metrics = retrograde.NewMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", retrograde.MetricsHandler(reg))
		servers = append(servers, serve(sc.Server.Metrics, mux, logger))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	_, err = sim.Run(ctx)
	for _, srv := range servers {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		srv.Shutdown(shutdownCtx)
		done()
	}
	if errors.Is(err, context.Canceled) {
		// Interrupted by the user: the outputs were closed properly.
		return nil
	}
	return err
}

// openOutputs creates the GIF and trail file outputs of the scenario. The returned files must be
// closed once the simulation has closed the sinks. On error, everything already created is closed.
func openOutputs(sc retrograde.Scenario, logger kitlog.Logger) (sinks []retrograde.FrameSink, files []io.Closer, err error) {
	defer func() {
		if err != nil {
			for _, sink := range sinks {
				sink.Close()
			}
			closeAll(files)
			sinks, files = nil, nil
		}
	}()
	if sc.Export.GIF != "" {
		gifSink, err := render.NewGIFFile(sc.Export.GIF, sc.Export.Every, sc.FPS)
		if err != nil {
			return sinks, files, err
		}
		sinks = append(sinks, gifSink)
	}
	if sc.Export.CSV != "" || sc.Export.Cosmo {
		conf := retrograde.ExportConfig{Cosmo: sc.Export.Cosmo, Dir: sc.Export.Dir, Name: sc.Name}
		if sc.Export.CSV != "" {
			f, err := os.Create(sc.Export.CSV)
			if err != nil {
				return sinks, files, err
			}
			files = append(files, f)
			conf.CSV = f
		}
		exporter, err := retrograde.NewTrailExporter(conf, logger)
		if err != nil {
			return sinks, files, err
		}
		sinks = append(sinks, exporter)
	}
	return sinks, files, nil
}

func closeAll(files []io.Closer) {
	for _, f := range files {
		f.Close()
	}
}

func serve(addr string, handler http.Handler, logger kitlog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Log("level", "info", "subsys", "http", "listen", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("level", "critical", "subsys", "http", "listen", addr, "err", err)
		}
	}()
	return srv
}
