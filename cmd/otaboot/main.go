// otaboot brings an embedded device from cold start to a running
// over-the-air update agent: it joins the configured Wi-Fi network,
// initializes the transport and broker subsystems in strict order,
// launches the update agent, and then parks until shutdown. The agent
// owns the device from that point on.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelworks/otaboot/internal/agent"
	"github.com/kestrelworks/otaboot/internal/boot"
	"github.com/kestrelworks/otaboot/internal/history"
	"github.com/kestrelworks/otaboot/internal/infrastructure/config"
	"github.com/kestrelworks/otaboot/internal/infrastructure/database"
	"github.com/kestrelworks/otaboot/internal/infrastructure/influxdb"
	"github.com/kestrelworks/otaboot/internal/infrastructure/logging"
	"github.com/kestrelworks/otaboot/internal/infrastructure/mqtt"
	"github.com/kestrelworks/otaboot/internal/transport"
	"github.com/kestrelworks/otaboot/internal/wifi"
	"github.com/kestrelworks/otaboot/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Any returned error is fatal: the bootstrap makes no
// attempt to limp along with a partially initialized device.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting otaboot",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Telemetry is optional: a disabled or unreachable server never
	// blocks the bootstrap.
	telemetry := connectTelemetry(cfg, log)
	defer telemetry.Close()

	driver := boot.NewDriver()

	// Phase 1: join the network. Retries are bounded; running without
	// connectivity is pointless for an update agent.
	driver.Advance(boot.StateWifiConnecting)
	log.Info("boot phase", "phase", driver.State().String())

	addr, err := connectWifi(ctx, cfg, log, telemetry)
	if err != nil {
		driver.Fail()
		telemetry.WriteBootPhase(boot.StateWifiConnecting.String(), false)
		return fmt.Errorf("connecting to wifi: %w", err)
	}
	telemetry.WriteBootPhase(boot.StateWifiConnecting.String(), true)
	log.Info("network up", "address", addr.String())

	// Phase 2: ordered subsystem initialization. The first failure
	// aborts the boot; later steps are never attempted.
	driver.Advance(boot.StateSubsystemsInitializing)
	log.Info("boot phase", "phase", driver.State().String())

	var (
		secured *transport.Transport
		client  *mqtt.Client
		db      *database.DB
	)
	seq := boot.NewSequence(
		boot.Step{Name: "secure_transport", Run: func(context.Context) error {
			var stepErr error
			secured, stepErr = transport.Init(cfg.TLS)
			return stepErr
		}},
		boot.Step{Name: "mqtt", Run: func(context.Context) error {
			var stepErr error
			client, stepErr = mqtt.Connect(cfg.MQTT, cfg.Device.ID, secured.TLSConfig())
			return stepErr
		}},
		boot.Step{Name: "history", Run: func(stepCtx context.Context) error {
			var stepErr error
			db, stepErr = database.Open(database.Config{
				Path:        cfg.History.Path,
				WALMode:     cfg.History.WALMode,
				BusyTimeout: cfg.History.BusyTimeout,
			})
			if stepErr != nil {
				return stepErr
			}
			return db.Migrate(stepCtx, migrations.Files())
		}},
	)
	seq.SetLogger(log)

	if err := seq.Run(ctx); err != nil {
		driver.Fail()
		telemetry.WriteBootPhase(boot.StateSubsystemsInitializing.String(), false)
		return fmt.Errorf("initializing subsystems: %w", err)
	}
	telemetry.WriteBootPhase(boot.StateSubsystemsInitializing.String(), true)

	client.SetLogger(log)
	client.SetOnDisconnect(func(err error) {
		log.Warn("broker connection lost, reconnecting", "error", err)
	})

	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	defer func() {
		log.Info("disconnecting from broker")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing mqtt client", "error", closeErr)
		}
	}()

	// Phase 3: launch the update agent. The broker connection is
	// captured here, right before the agent takes it over.
	driver.Advance(boot.StateAgentStarting)
	log.Info("boot phase", "phase", driver.State().String())

	recorder := history.NewRecorder(history.NewStore(db), log)
	defer recorder.Close()

	ref := &agent.ContextRef{}
	updateAgent, err := agent.Start(ctx,
		agent.NetworkParams{
			Interface: client,
			DeviceID:  cfg.Device.ID,
		},
		agent.AgentParams{
			Callback: agent.FanOut(
				agent.StatusCallback(log),
				recorder.Callback(),
				telemetryCallback(telemetry),
			),
			CallbackArg:  ref,
			TopicFilters: cfg.OTA.TopicFilters,
			Updater: &agent.CommandUpdater{
				Command: cfg.OTA.Installer.Command,
				Args:    cfg.OTA.Installer.Args,
				WorkDir: cfg.OTA.Installer.WorkDir,
				Timeout: cfg.OTA.Installer.Timeout,
			},
			Rebooter:             agent.SystemdRebooter{},
			RebootUponCompletion: cfg.OTA.RebootUponCompletion,
			Logger:               log,
		},
	)
	if err != nil {
		driver.Fail()
		telemetry.WriteBootPhase(boot.StateAgentStarting.String(), false)
		return fmt.Errorf("starting update agent: %w", err)
	}
	telemetry.WriteBootPhase(boot.StateAgentStarting.String(), true)

	driver.Advance(boot.StateRunning)
	log.Info("bootstrap complete, agent running",
		"phase", driver.State().String(),
		"context", ref.Load().ID(),
		"device_id", cfg.Device.ID,
	)

	// The bootstrap's job is done. Park until shutdown; the agent owns
	// the device from here.
	<-ctx.Done()

	log.Info("shutdown signal received")
	<-updateAgent.Done()
	log.Info("agent stopped")
	return nil
}

// connectWifi runs the bounded-retry association loop, reporting each
// attempt to telemetry.
func connectWifi(ctx context.Context, cfg *config.Config, log *logging.Logger, telemetry *influxdb.Client) (netip.Addr, error) {
	connector := wifi.NewConnector(cfg.WiFi.MaxRetries, cfg.RetryDelay())
	connector.SetLogger(log)

	nm := &wifi.NMCLI{
		Interface: cfg.WiFi.Interface,
		Timeout:   cfg.WiFi.ConnectTimeout,
	}

	attempt := 0
	assoc := wifi.AssociatorFunc(func(ctx context.Context, creds wifi.Credentials) (netip.Addr, error) {
		attempt++
		addr, err := nm.Associate(ctx, creds)
		telemetry.WriteConnectAttempt(attempt, err == nil)
		return addr, err
	})

	return connector.Connect(ctx, assoc, wifi.Credentials{
		SSID:       cfg.WiFi.SSID,
		Passphrase: cfg.WiFi.Passphrase,
		Security:   cfg.WiFi.Security,
	})
}

// connectTelemetry connects to InfluxDB if enabled. Failures degrade
// to a nil client, whose writes are all no-ops.
func connectTelemetry(cfg *config.Config, log *logging.Logger) *influxdb.Client {
	telemetry, err := influxdb.Connect(cfg.InfluxDB, cfg.Device.ID)
	if err != nil {
		if !errors.Is(err, influxdb.ErrDisabled) {
			log.Warn("telemetry unavailable, continuing without", "error", err)
		}
		return nil
	}
	telemetry.SetOnError(func(err error) {
		log.Warn("telemetry write failed", "error", err)
	})
	log.Info("telemetry connected", "url", cfg.InfluxDB.URL)
	return telemetry
}

// telemetryCallback mirrors agent events into the time-series store.
func telemetryCallback(telemetry *influxdb.Client) agent.Callback {
	return func(reason agent.Reason, value uint32, arg *agent.ContextRef) {
		octx := arg.Load()
		if octx == nil {
			return
		}
		state := octx.State()
		telemetry.WriteAgentEvent(octx.ID(), reason.String(), state.String(), value)

		switch reason {
		case agent.ReasonSuccess:
			telemetry.WriteUpdateOutcome(octx.Job().Version, history.StatusSuccess, "")
		case agent.ReasonFailure:
			detail := ""
			if err := octx.LastError(); err != nil {
				detail = err.Error()
			}
			telemetry.WriteUpdateOutcome(octx.Job().Version, history.StatusFailure, detail)
		}
	}
}

// getConfigPath returns the configuration file path.
// Uses the OTABOOT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OTABOOT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
