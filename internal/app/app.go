package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/nkanderson/quick-aqi/internal/config"
	"github.com/nkanderson/quick-aqi/internal/hexfmt"
	"github.com/nkanderson/quick-aqi/internal/indicator"
	"github.com/nkanderson/quick-aqi/internal/monitor"
	"github.com/nkanderson/quick-aqi/internal/mqtt"
	"github.com/nkanderson/quick-aqi/internal/pmsa003i"
)

// Run wires the peripherals and components together and services trigger
// events until ctx is done. Peripheral init failures here are fatal; once
// the runner is up, all errors are local to a single acquisition cycle.
func Run(ctx context.Context, cfg config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	defer bus.Close()

	dev := pmsa003i.NewDevice(bus, cfg.SensorAddr)
	if err := dev.Ping(ctx); err != nil {
		slog.Warn("sensor did not respond to ping",
			"address", hexfmt.Hex4(cfg.SensorAddr), "error", err)
	} else {
		slog.Info("sensor responded to ping", "address", hexfmt.Hex4(cfg.SensorAddr))
	}

	trigger := gpioreg.ByName(cfg.TriggerPin)
	if trigger == nil {
		return fmt.Errorf("no GPIO line named %q for trigger", cfg.TriggerPin)
	}
	if err := trigger.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return fmt.Errorf("configure trigger %s: %w", cfg.TriggerPin, err)
	}

	bank, err := indicator.ByNames(cfg.IndicatorPins)
	if err != nil {
		return err
	}

	var publisher monitor.Publisher
	var mqttClient *mqtt.Client
	if cfg.MQTTEnabled {
		mqttClient, err = mqtt.NewClient(cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("mqtt client: %w", err)
		}
		defer mqttClient.Disconnect()
		publisher = mqttClient
	}

	cycle := monitor.NewCycle(dev, slog.Default())
	runner := monitor.NewRunner(cycle, trigger, bank, publisher, slog.Default(), cfg.EdgeTimeout)

	g, ctx := errgroup.WithContext(ctx)
	if mqttClient != nil {
		g.Go(func() error {
			// A broker that never comes up should not stop acquisition;
			// publishing simply keeps failing per cycle.
			if err := mqttClient.Connect(ctx); err != nil {
				slog.Error("mqtt connect failed", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return runner.Run(ctx)
	})
	return g.Wait()
}
