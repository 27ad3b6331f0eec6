package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"cellar_thermostat/internal/handlers"
	"cellar_thermostat/internal/indicator"
	"cellar_thermostat/internal/logger"
	"cellar_thermostat/internal/netwait"
	"cellar_thermostat/internal/sensor"
	"cellar_thermostat/internal/server"
	"cellar_thermostat/internal/service"
	"cellar_thermostat/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml, then init logger at the configured level
	cfgErr := loadConfig()
	log := logger.Get(viper.GetString("log_level"))
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	session := uuid.NewString()
	log.Infow("cellar thermostat starting", "session", session)

	// status LEDs
	heartbeatPin := openPin(viper.GetInt("indicators.heartbeat_pin"), log)
	activityPin := openPin(viper.GetInt("indicators.activity_pin"), log)
	heartbeat := indicator.NewHeartbeat(heartbeatPin)
	activity := indicator.NewActivity(activityPin)

	// persistent settings region; unusable storage is fatal and shows as
	// the rapid fault pulse
	db, err := storage.InitDB(viper.GetString("db.path"))
	if err != nil {
		log.Errorw("failed to init settings storage", "err", err)
		indicator.Fault(heartbeatPin)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close settings storage", "err", cerr)
		}
	}()
	region, err := storage.NewRegion(db)
	if err != nil {
		log.Errorw("failed to load settings region", "err", err)
		indicator.Fault(heartbeatPin)
	}

	// temperature sensor
	driver, err := openSensor(log)
	if err != nil {
		log.Fatalw("failed to open sensor", "err", err)
	}
	defer func() { _ = driver.Close() }()

	// wire dependencies
	services := service.NewService(region, driver, service.Options{
		ArmActivity: activity.Arm,
	}, log)
	services.Load()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go indicator.Run(ctx, []indicator.Pin{heartbeatPin, activityPin}, heartbeat, activity)

	// block until the network is usable, like the original's association loop
	if err := netwait.Wait(ctx, viper.GetString("net.probe_addr"), viper.GetDuration("net.retry_interval"), log); err != nil {
		log.Fatalw("network association aborted", "err", err)
	}

	// /reboot feeds this channel; waitForShutdown turns it into a re-exec
	restart := make(chan struct{}, 1)
	requestRestart := func() {
		select {
		case restart <- struct{}{}:
		default:
		}
	}

	apiHandler := handlers.NewHandler(services, viper.GetString("assets.dir"), session, requestRestart, log)

	// start HTTP server
	srv := &server.Server{}
	port := viper.GetString("port")
	go func() {
		if err := srv.Run(port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("web server started", "port", port)

	waitForShutdown(cancel, srv, restart, log)
}

func loadConfig() error {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("db.path", "thermostat.db")
	viper.SetDefault("assets.dir", "web")
	viper.SetDefault("sensor.driver", "sim")
	viper.SetDefault("sensor.base_temp", 12.0)
	viper.SetDefault("net.retry_interval", time.Second)

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		// a missing file is fine, the defaults cover it
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// openPin returns a GPIO output, or a no-op pin on hosts without GPIO so
// the rest of the firmware runs unchanged.
func openPin(n int, log *logger.Logger) indicator.Pin {
	if n == 0 {
		return indicator.NopPin{}
	}
	pin, err := indicator.OpenPin(n)
	if err != nil {
		log.Warnw("gpio unavailable, indicator disabled", "pin", n, "err", err)
		return indicator.NopPin{}
	}
	return pin
}

func openSensor(log *logger.Logger) (sensor.Driver, error) {
	switch driver := viper.GetString("sensor.driver"); driver {
	case "dht":
		return sensor.OpenDHT(viper.GetInt("sensor.pin"))
	case "sim":
		log.Infow("using simulated sensor")
		return sensor.NewSim(
			float32(viper.GetFloat64("sensor.base_temp")),
			viper.GetFloat64("sensor.fault_rate"),
			time.Now().UnixNano(),
		), nil
	default:
		return nil, errors.New("unknown sensor.driver: " + driver)
	}
}

// waitForShutdown blocks until a termination signal or a reboot request,
// drains in-flight requests, and for a reboot replaces the process with a
// fresh copy of itself.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, restart <-chan struct{}, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	reboot := false
	select {
	case <-quit:
		log.Infow("shutting down server...")
	case <-restart:
		log.Infow("rebooting...")
		reboot = true
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests (including the /reboot response) to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}

	if reboot {
		reexec(log)
	}
}

func reexec(log *logger.Logger) {
	exe, err := os.Executable()
	if err != nil {
		log.Fatalw("cannot locate executable for reboot", "err", err)
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		log.Fatalw("reboot failed", "err", err)
	}
}
