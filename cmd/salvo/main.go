// Command salvo runs a missile scenario headless, or in real time behind a telemetry feed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/salvo/audio"
	"github.com/lixenwraith/salvo/config"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/session"
	"github.com/lixenwraith/salvo/status"
	"github.com/lixenwraith/salvo/telemetry"
	"golang.org/x/sync/errgroup"
)

var (
	scenarioFlag = flag.String("scenario", "", "Scenario TOML file (built-in demo when empty)")
	dumpFlag     = flag.Bool("dump-config", false, "Print the effective scenario as TOML and exit")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/salvo.log")
	serveFlag    = flag.String("serve", "", "Run in real time and stream telemetry on this address, e.g. :8080")
	audioFlag    = flag.Bool("audio", false, "Play cues through the default audio device (real-time mode)")
	durationFlag = flag.Float64("duration", 0, "Override the scenario duration in seconds")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	sc, err := loadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "salvo: %v\n", err)
		os.Exit(1)
	}
	if *durationFlag > 0 {
		sc.Simulation.Duration = *durationFlag
	}

	if *dumpFlag {
		if err := config.Write(os.Stdout, sc); err != nil {
			fmt.Fprintf(os.Stderr, "salvo: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *serveFlag == "" {
		err = runHeadless(sc)
	} else {
		err = runServer(sc, *serveFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "salvo: %v\n", err)
		os.Exit(1)
	}
}

func loadScenario() (*config.Scenario, error) {
	if *scenarioFlag == "" {
		return config.Demo(), nil
	}
	return config.Load(*scenarioFlag)
}

// runHeadless steps as fast as possible and prints the tally
func runHeadless(sc *config.Scenario) error {
	s, err := session.New(sc, session.Options{})
	if err != nil {
		return err
	}
	start := time.Now()
	steps := s.RunFor(sc.Simulation.Duration)
	log.Printf("headless: %d steps in %v", steps, time.Since(start))

	printSummary(s.Summarize())
	return nil
}

// runServer paces the simulation on the wall clock and serves telemetry until the
// scenario ends or the process is interrupted
func runServer(sc *config.Scenario, addr string) error {
	var player engine.AudioPlayer
	if *audioFlag {
		sm := audio.NewSoundManager(nil)
		if err := sm.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "audio unavailable: %v (continuing without audio)\n", err)
		} else {
			defer sm.Cleanup()
			player = sm
		}
	}

	s, err := session.New(sc, session.Options{Player: player})
	if err != nil {
		return err
	}
	hub := telemetry.NewHub(s.World.Status.Ints.Get(status.KeyTelemetryClients))
	s.Telemetry.SetSink(hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if sc.Simulation.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(sc.Simulation.Duration*float64(time.Second)))
		defer cancel()
	}

	mux := http.NewServeMux()
	mux.Handle("/telemetry", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		hub.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	g.Go(func() error {
		err := s.Scheduler.Run(gctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})

	core.SetCrashHook(func() { srv.Close() })
	fmt.Fprintf(os.Stderr, "salvo: telemetry on ws://%s/telemetry\n", addr)

	err = g.Wait()
	s.World.RunSafe(func() { printSummary(s.Summarize()) })
	return err
}

func printSummary(sum session.Summary) {
	fmt.Printf("ticks      %d (%.2fs simulated)\n", sum.Ticks, sum.Time)
	fmt.Printf("spawned    %d\n", sum.Spawned)
	fmt.Printf("hits       %d\n", sum.Hits)
	fmt.Printf("lost       %d\n", sum.Lost)
	fmt.Printf("cancelled  %d\n", sum.Cancelled)
	fmt.Printf("numeric    %d\n", sum.Numeric)
	fmt.Printf("active     %d\n", sum.Active)
	if sum.Hits > 0 {
		fmt.Printf("last hit   %.2fs\n", sum.LastHit)
	}
	fmt.Printf("peak speed %.1f\n", sum.PeakSpeed)
}
