package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// I2CBus is the periph bus name; empty selects the default bus
	// (usually /dev/i2c-1).
	I2CBus     string
	SensorAddr uint16

	TriggerPin  string
	EdgeTimeout time.Duration

	// IndicatorPins holds one GPIO line name per severity category, in
	// ascending severity order.
	IndicatorPins [6]string

	StationID    string
	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	i2cBus := strings.TrimSpace(os.Getenv("I2C_BUS"))

	sensorAddrStr := strings.TrimSpace(os.Getenv("SENSOR_ADDRESS"))
	if sensorAddrStr == "" {
		sensorAddrStr = "0x12"
	}
	sensorAddr, err := strconv.ParseUint(sensorAddrStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SENSOR_ADDRESS %q: %w", sensorAddrStr, err)
	}

	triggerPin := strings.TrimSpace(os.Getenv("TRIGGER_PIN"))
	if triggerPin == "" {
		triggerPin = "GPIO4"
	}

	edgeTimeoutStr := strings.TrimSpace(os.Getenv("TRIGGER_EDGE_TIMEOUT"))
	if edgeTimeoutStr == "" {
		edgeTimeoutStr = "500ms"
	}
	edgeTimeout, err := time.ParseDuration(edgeTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TRIGGER_EDGE_TIMEOUT %q: %w", edgeTimeoutStr, err)
	}
	if edgeTimeout <= 0 {
		return Config{}, fmt.Errorf("TRIGGER_EDGE_TIMEOUT must be positive, got %v", edgeTimeout)
	}

	indicatorPinsStr := strings.TrimSpace(os.Getenv("INDICATOR_PINS"))
	if indicatorPinsStr == "" {
		indicatorPinsStr = "GPIO17,GPIO27,GPIO22,GPIO23,GPIO24,GPIO25"
	}
	indicatorPins, err := parseIndicatorPins(indicatorPinsStr)
	if err != nil {
		return Config{}, err
	}

	stationID := strings.TrimSpace(os.Getenv("STATION_ID"))
	if stationID == "" {
		stationID = "home"
	}

	mqttEnabledStr := strings.TrimSpace(os.Getenv("MQTT_ENABLED"))
	if mqttEnabledStr == "" {
		mqttEnabledStr = "false"
	}
	mqttEnabled, err := strconv.ParseBool(mqttEnabledStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_ENABLED %q: %w", mqttEnabledStr, err)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if mqttBroker == "" {
		mqttBroker = "localhost"
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "quick-aqi"
	}

	return Config{
		AppEnv:        appEnv,
		LogLevel:      level,
		I2CBus:        i2cBus,
		SensorAddr:    uint16(sensorAddr),
		TriggerPin:    triggerPin,
		EdgeTimeout:   edgeTimeout,
		IndicatorPins: indicatorPins,
		StationID:     stationID,
		MQTTEnabled:   mqttEnabled,
		MQTTBroker:    mqttBroker,
		MQTTPort:      mqttPort,
		MQTTClientID:  mqttClientID,
	}, nil
}

func parseIndicatorPins(s string) ([6]string, error) {
	var pins [6]string
	parts := strings.Split(s, ",")
	if len(parts) != len(pins) {
		return pins, fmt.Errorf("INDICATOR_PINS needs %d comma-separated line names, got %d", len(pins), len(parts))
	}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return pins, fmt.Errorf("INDICATOR_PINS entry %d is empty", i)
		}
		pins[i] = p
	}
	return pins, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
