package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thermoreg/thermoreg/pkg/config"
	"github.com/thermoreg/thermoreg/pkg/events"
	"github.com/thermoreg/thermoreg/pkg/sim"
)

var (
	drv      *sim.Driver
	conf     config.Config
	sseHub   *events.EventHub
	reseeder *Scheduler
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.GET("/snapshot", getSnapshot)
	router.GET("/config", getConfig)
	router.PUT("/tick-interval", setTickInterval)
	router.POST("/reset", postReset)
	router.PUT("/reseed-schedule", setReseedSchedule)
	router.POST("/reseed-schedule/skip", postSkipReseed)
	router.GET("/version", getVersion)
	router.GET("/events", getEvents)

	return router
}

// hubReporter bridges driver phase transitions onto the SSE hub and the
// daemon log. It remembers the last reported state to fill the From
// field of transition events.
func hubReporter(hub *events.EventHub) sim.Reporter {
	last := sim.StateStart
	return sim.ReporterFunc(func(s sim.Snapshot) {
		logrus.WithFields(logrus.Fields{
			"temperature":   s.Temperature,
			"batteryCharge": s.BatteryCharge,
			"state":         s.State,
		}).Info("phase transition")

		hub.Publish(events.StateTransition, events.StateTransitionEvent{
			From:          string(last),
			To:            string(s.State),
			Temperature:   s.Temperature,
			BatteryCharge: s.BatteryCharge,
			Cycle:         drv.Cycles(),
			Ts:            time.Now().Unix(),
		})
		last = s.State
	})
}

// Run starts the daemon: the simulation loop, the reseed scheduler and
// the control API on a unix socket. It blocks until SIGINT or SIGTERM.
func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
		}
	}()

	sseHub = events.NewEventHub()
	drv = sim.NewDriver(
		sim.NewRandomInitializer(conf.SeedMaxTemperature(), conf.SeedMaxCharge()),
		hubReporter(sseHub),
	)

	reseeder = NewScheduler(func() error {
		reseed("scheduled")
		return nil
	}, nil)
	if expr := conf.ReseedSchedule(); expr != "" {
		if err := reseeder.Schedule(expr); err != nil {
			logrus.Errorf("invalid reseed schedule %q in config: %v", expr, err)
		}
	}
	reseeder.Start()

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	stopLoop := make(chan struct{})
	go func() {
		runLoop(stopLoop)
		logrus.Debug("simulation loop exited")
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	close(stopLoop)
	reseeder.Stop()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
