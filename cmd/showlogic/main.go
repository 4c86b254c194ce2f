// Show Logic Core - Effect Timeline Engine
//
// This is the main entry point for the Show Logic runner. It wires the
// infrastructure together, builds the configured show, plays it, and
// records the outcome:
//   - Lights are MQTT-bridged fixtures (showlogic/command/light/{id})
//   - Sounds dispatch through an external player binary
//   - Run history is persisted to SQLite
//   - Dispatch telemetry streams to InfluxDB when enabled
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/nerrad567/show-logic-core/migrations"

	"github.com/nerrad567/show-logic-core/audio"
	"github.com/nerrad567/show-logic-core/device"
	"github.com/nerrad567/show-logic-core/effects"
	"github.com/nerrad567/show-logic-core/effects/easing"
	"github.com/nerrad567/show-logic-core/internal/bridges/mqttlight"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/config"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/database"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/logging"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/show-logic-core/internal/runlog"
)

// Build metadata, stamped via
// go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

// persistTimeout bounds the post-playback bookkeeping (run history,
// telemetry flush). The play context may already be cancelled by then, so
// bookkeeping runs under its own deadline.
const persistTimeout = 5 * time.Second

func main() {
	// Ctrl+C or SIGTERM cancels the play context; the timeline stops at
	// the next effect boundary and shutdown proceeds normally.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run holds the whole startup/play/persist sequence so main stays a thin
// exit-code shim. A cancelled show is a clean shutdown, not an error.
func run(ctx context.Context) error {
	// Bootstrap logger; replaced once config is loaded.
	log := logging.Default()
	log.Info("starting Show Logic Core",
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

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	applied, pending, statusErr := db.GetMigrationStatus(ctx)
	if statusErr != nil {
		return fmt.Errorf("reading migration status: %w", statusErr)
	}
	log.Info("database migrations complete",
		"applied", len(applied),
		"pending", len(pending),
	)

	runRepo := runlog.NewSQLiteRepository(db.DB)

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Telemetry sink is optional; a nil client is handled downstream.
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Track reported fixture state while the show runs
	monitor, err := mqttlight.NewMonitor(mqttClient, byte(cfg.MQTT.QoS))
	if err != nil {
		return fmt.Errorf("creating light state monitor: %w", err)
	}
	if startErr := monitor.Start(); startErr != nil {
		log.Warn("light state monitor failed to start", "error", startErr)
	}

	// Build the show from configuration
	show, err := buildShow(cfg, mqttClient, log)
	if err != nil {
		return fmt.Errorf("building show: %w", err)
	}
	show.SetObserver(&telemetryObserver{
		log:      log,
		influx:   influxClient,
		mqtt:     mqttClient,
		showID:   show.ID(),
		showName: show.Name(),
	})
	log.Info("show built",
		"show", show.Name(),
		"show_id", show.ID(),
		"lights", len(cfg.Show.Lights),
		"repeat", cfg.Show.Repeat,
	)

	// Play. Blocks until the timeline finishes or the context cancels.
	exec, playErr := show.Play(ctx)
	if exec == nil {
		// Recording-time failure (open section, missing player); nothing ran.
		return fmt.Errorf("playing show: %w", playErr)
	}

	recordRun(log, runRepo, influxClient, mqttClient, exec, playErr)

	if ids := monitor.IDs(); len(ids) > 0 {
		log.Info("fixtures reporting state", "lights", ids)
	}

	switch exec.Status {
	case effects.StatusFailed:
		return fmt.Errorf("show failed: %w", playErr)
	case effects.StatusPartial:
		log.Warn("show finished with failed effects",
			"failed", exec.EffectsFailed,
			"dispatched", exec.EffectsDispatched,
		)
	case effects.StatusCancelled:
		log.Info("show cancelled, shutting down")
	default:
		log.Info("show completed", "duration", exec.Duration().String())
	}

	log.Info("Show Logic Core stopped")
	return nil
}

// getConfigPath resolves the config file location: SHOWLOGIC_CONFIG when
// set, the repo-relative default otherwise.
func getConfigPath() string {
	if path := os.Getenv("SHOWLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck round-trips each connected backend before playback starts,
// returning the first failure. influxClient is nil when telemetry is
// disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// Colour palette for the fireplace show, in the channel convention the
// fixtures expect: hue 0-255, saturation and value 0-100.
var (
	colourGlow  = device.Colour{5, 100, 10} // barely-lit embers
	colourEmber = device.Colour{8, 95, 25}  // resting fire
	colourFlame = device.Colour{18, 85, 70} // full flame
)

// buildShow assembles the demonstration show from configuration: an audio
// player, one MQTT-bridged light per configured fixture, and the recorded
// fireplace timeline.
func buildShow(cfg *config.Config, client *mqtt.Client, log *logging.Logger) (*effects.Show, error) {
	show := effects.New(cfg.Show.Name)
	show.SetLogger(log)

	player, err := audio.NewExecPlayer(audio.Config{
		Binary: cfg.Audio.Binary,
		Args:   cfg.Audio.Args,
	})
	if err != nil {
		return nil, fmt.Errorf("creating audio player: %w", err)
	}
	player.SetLogger(log)
	show.SetDefaultPlayer(player)

	names, err := registerLights(show, cfg, client)
	if err != nil {
		return nil, err
	}

	if err := recordFireplace(show, cfg, names, log); err != nil {
		return nil, fmt.Errorf("recording timeline: %w", err)
	}

	return show, nil
}

// registerLights creates a bridge light per configured fixture, registers
// each under its display name, and groups them all under "all".
func registerLights(show *effects.Show, cfg *config.Config, client *mqtt.Client) ([]string, error) {
	if len(cfg.Show.Lights) == 0 {
		return nil, errors.New("show.lights must configure at least one fixture")
	}

	names := make([]string, 0, len(cfg.Show.Lights))
	for _, fixture := range cfg.Show.Lights {
		light, err := mqttlight.New(mqttlight.Config{
			ID:  fixture.ID,
			QoS: byte(cfg.MQTT.QoS),
		}, client)
		if err != nil {
			return nil, fmt.Errorf("creating light %q: %w", fixture.ID, err)
		}

		name := fixture.Name
		if name == "" {
			name = fixture.ID
		}
		if err := show.AddLight(name, light); err != nil {
			return nil, fmt.Errorf("registering light %q: %w", name, err)
		}
		names = append(names, name)
	}

	if err := show.AddLightGroup("all", names...); err != nil {
		return nil, fmt.Errorf("registering light group: %w", err)
	}

	return names, nil
}

// recordFireplace records the demonstration timeline: ignition, a crackling
// flicker loop, and a dying-ember shutdown. The flicker section is a named
// template — recorded once, scheduled twice per loop pass.
func recordFireplace(show *effects.Show, cfg *config.Config, names []string, log *logging.Logger) error {
	// Ignition: bring the room up out of darkness.
	err := show.Section(effects.SectionConfig{}, func() error {
		if err := show.AddLightOn("all"); err != nil {
			return err
		}
		if err := show.AddLightColour("all", colourGlow); err != nil {
			return err
		}
		if err := show.AddSound(soundPath(cfg, "fire_ignition.wav")); err != nil {
			return err
		}
		return show.AddLightColourTransition("all", colourGlow, colourEmber, 3*time.Second, easing.SineIn)
	})
	if err != nil {
		return err
	}

	// Evening loop: cfg.Show.Repeat full passes (-1 loops until shutdown).
	err = show.Section(effects.SectionConfig{Name: "evening", Repeat: cfg.Show.Repeat}, func() error {
		// First scheduling of "flicker" records the template: every light
		// breathes on its own branch while the crackle bed plays alongside.
		err := show.Section(effects.SectionConfig{Name: "flicker", Parallel: effects.Bool(true)}, func() error {
			for _, name := range names {
				err := show.Section(effects.SectionConfig{}, func() error {
					if err := show.AddLightColourTransition(name, colourEmber, colourFlame, 2*time.Second, easing.SineInOut); err != nil {
						return err
					}
					return show.AddLightColourTransition(name, colourFlame, colourEmber, 2*time.Second, easing.QuadraticInOut)
				})
				if err != nil {
					return err
				}
			}

			// Crackle bed on its own branch beside the light sweeps.
			return show.Section(effects.SectionConfig{}, func() error {
				if err := show.AddSound(soundPath(cfg, "fire_crackle.wav")); err != nil {
					return err
				}
				return show.AddDelay(4 * time.Second)
			})
		})
		if err != nil {
			return err
		}

		// Cue marker between flicker passes.
		if err := show.AddCustom(func(_ context.Context) error {
			log.Info("cue reached", "cue", "flicker_repeat")
			return nil
		}); err != nil {
			return err
		}

		// Second scheduling reuses the recorded template as-is.
		if err := show.Section(effects.SectionConfig{Name: "flicker"}, nil); err != nil {
			return err
		}

		return show.AddDelay(time.Second)
	})
	if err != nil {
		return err
	}

	// Dying embers: fade everything down and off.
	return show.Section(effects.SectionConfig{}, func() error {
		if err := show.AddLightColourTransition("all", colourEmber, colourGlow, 4*time.Second, easing.SineOut); err != nil {
			return err
		}
		return show.AddLightOff("all")
	})
}

// soundPath resolves a sound file name against the configured sound
// directory. Names are used as-is when no directory is configured.
func soundPath(cfg *config.Config, name string) string {
	if cfg.Audio.SoundDir == "" {
		return name
	}
	return filepath.Join(cfg.Audio.SoundDir, name)
}

// recordRun persists the outcome of a playback and emits the run telemetry.
func recordRun(log *logging.Logger, repo runlog.Repository, influxClient *influxdb.Client, mqttClient *mqtt.Client, exec *effects.Execution, playErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	run := runlog.FromExecution(exec, playErr)
	if err := repo.Create(ctx, run); err != nil {
		log.Error("recording run failed", "run_id", run.ID, "error", err)
	} else {
		log.Info("run recorded",
			"run_id", run.ID,
			"status", string(run.Status),
			"duration_ms", run.DurationMS,
		)
	}

	if influxClient != nil {
		influxClient.WriteRunSummary(
			exec.ShowName,
			exec.ID,
			string(exec.Status),
			exec.EffectsDispatched,
			exec.EffectsCompleted,
			exec.EffectsFailed,
			exec.Duration(),
		)
		influxClient.Flush()
	}

	publishRunSummary(log, mqttClient, exec)
}

// publishRunSummary publishes the retained run summary so dashboards and
// late subscribers see the last outcome per show.
func publishRunSummary(log *logging.Logger, client *mqtt.Client, exec *effects.Execution) {
	msg := runMessage{
		RunID:             exec.ID,
		ShowID:            exec.ShowID,
		Show:              exec.ShowName,
		Status:            string(exec.Status),
		EffectsDispatched: exec.EffectsDispatched,
		EffectsCompleted:  exec.EffectsCompleted,
		EffectsFailed:     exec.EffectsFailed,
		DurationMS:        exec.Duration().Milliseconds(),
		Timestamp:         exec.CompletedAt.UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshalling run summary failed", "error", err)
		return
	}
	if err := client.PublishRetained(mqtt.Topics{}.ShowRun(exec.ShowID), payload); err != nil {
		log.Warn("publishing run summary failed", "error", err)
	}
}

// eventMessage is the payload published per effect on the show event topic.
type eventMessage struct {
	Show      string `json:"show"`
	Kind      string `json:"kind"`
	Target    string `json:"target,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// runMessage is the retained payload summarising a finished run.
type runMessage struct {
	RunID             string `json:"run_id"`
	ShowID            string `json:"show_id"`
	Show              string `json:"show"`
	Status            string `json:"status"`
	EffectsDispatched int    `json:"effects_dispatched"`
	EffectsCompleted  int    `json:"effects_completed"`
	EffectsFailed     int    `json:"effects_failed"`
	DurationMS        int64  `json:"duration_ms"`
	Timestamp         string `json:"timestamp"`
}

// telemetryObserver fans leaf dispatch notifications out to the logger,
// InfluxDB, and the show event topic. Callbacks run on dispatching branches,
// so event publishes use QoS 0 rather than stalling playback on broker
// acknowledgements.
type telemetryObserver struct {
	log      *logging.Logger
	influx   *influxdb.Client // nil when disabled
	mqtt     *mqtt.Client
	showID   string
	showName string
}

// EffectStarted implements effects.Observer.
func (o *telemetryObserver) EffectStarted(ev effects.Event) {
	o.log.Debug("effect started", "kind", ev.Kind, "target", ev.Target)
}

// EffectCompleted implements effects.Observer.
func (o *telemetryObserver) EffectCompleted(ev effects.Event) {
	status := "completed"
	if ev.Err != nil {
		status = "failed"
	}
	o.log.Debug("effect finished", "kind", ev.Kind, "target", ev.Target, "status", status)

	if o.influx != nil {
		o.influx.WriteEffectEvent(o.showName, ev.Kind, ev.Target, status)
	}

	msg := eventMessage{
		Show:      o.showName,
		Kind:      ev.Kind,
		Target:    ev.Target,
		Status:    status,
		Timestamp: ev.At.UTC().Format(time.RFC3339),
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		o.log.Error("marshalling show event failed", "error", err)
		return
	}
	if err := o.mqtt.Publish(mqtt.Topics{}.ShowEvent(o.showID), payload, 0, false); err != nil {
		o.log.Warn("publishing show event failed", "kind", ev.Kind, "error", err)
	}
}
