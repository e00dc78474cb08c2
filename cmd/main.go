package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labclimate/internal/config"
	"labclimate/internal/export"
	"labclimate/internal/handlers"
	"labclimate/internal/journal"
	"labclimate/internal/logger"
	"labclimate/internal/server"
	"labclimate/internal/service"
	"labclimate/internal/simulation"
)

const shutdownTimeout = 10 * time.Second

// @title           Lab Climate Control API
// @version         1.0
// @description     Temperature and humidity control dashboard for the computer laboratory.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml (+ LABCLIMATE_* overrides)
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalw("failed to create export dir", "dir", cfg.Export.Dir, "err", err)
	}

	// wire dependencies
	loop := newSimulation(cfg)
	auth, err := service.NewAuthService(cfg.Auth.OperatorPassword, cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalw("failed to init auth", "err", err)
	}
	services := service.NewService(loop, auth)
	apiHandler := handlers.NewHandler(services, log.Component("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start simulation loop (via composed service)
	go services.Simulator.Run(ctx, cfg.Sim.Tick)
	log.Infow("simulation started", "tick", cfg.Sim.Tick, "target_c", cfg.Setpoint.Target, "automation", cfg.Setpoint.Automation)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// newSimulation builds the engine in its power-on state and the loop that owns it.
func newSimulation(cfg *config.Config) *simulation.Loop {
	engine := simulation.NewEngine(
		journal.New(cfg.Journal.Capacity, nil),
		export.NewExporter(cfg.Export.Dir),
		simulation.Options{
			TargetC:    cfg.Setpoint.Target,
			ThresholdC: cfg.Setpoint.Threshold,
			Automation: cfg.Setpoint.Automation,
			Rand:       simulation.NewRand(cfg.Sim.Seed),
		},
	)
	return simulation.NewLoop(engine)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", addr)
		if err := srv.Run(addr, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// in-flight requests still reach the engine through the loop,
	// so the loop stops only after the server has drained
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	err := srv.Shutdown(ctx)
	cancel()
	if err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
