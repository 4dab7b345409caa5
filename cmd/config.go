package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Icerzack/guessroom/internal/client"
	"github.com/Icerzack/guessroom/internal/rest"
	"github.com/Icerzack/guessroom/internal/transport"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Apps struct {
		LogLevel   string `yaml:"log_level"`
		LogToFiles bool   `yaml:"log_to_files"`
		Client     struct {
			Endpoint         string        `yaml:"endpoint"`
			HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			PingInterval     time.Duration `yaml:"ping_interval"`
			PongWait         time.Duration `yaml:"pong_wait"`
			QueueSize        int           `yaml:"queue_size"`
			InboxSize        int           `yaml:"inbox_size"`
			SendRate         float64       `yaml:"send_rate"`
			SendBurst        int           `yaml:"send_burst"`
			Reconnect        struct {
				Enabled      bool          `yaml:"enabled"`
				InitialDelay time.Duration `yaml:"initial_delay"`
				MaxDelay     time.Duration `yaml:"max_delay"`
				Multiplier   float64       `yaml:"multiplier"`
				MaxAttempts  int           `yaml:"max_attempts"`
			} `yaml:"reconnect"`
		} `yaml:"client"`
		Rest struct {
			Enabled bool `yaml:"enabled"`
			Port    int  `yaml:"port"`
		} `yaml:"rest"`
	} `yaml:"apps"`
	Storage struct {
		Canvas struct {
			Type  string `yaml:"type"`
			Limit int    `yaml:"limit"`
		} `yaml:"canvas"`
		Chat struct {
			Type string `yaml:"type"`
			Size int    `yaml:"size"`
		} `yaml:"chat"`
	} `yaml:"storage"`
}

func ParseConfig(path string, logger *zap.Logger) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.Error("Failed to open config file", zap.Error(err))
		return nil, fmt.Errorf("error opening file %w", err)
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		logger.Error("Failed to decode config file", zap.Error(err))
		return nil, fmt.Errorf("error decoding file %w", err)
	}

	if err := config.validate(); err != nil {
		logger.Error("Invalid config file", zap.Error(err))
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Apps.Client.Endpoint == "" {
		return fmt.Errorf("%w: apps.client.endpoint is required", ErrInvalidConfig)
	}
	if c.Apps.Rest.Enabled && (c.Apps.Rest.Port <= 0 || c.Apps.Rest.Port > 65535) {
		return fmt.Errorf("%w: apps.rest.port %d out of range", ErrInvalidConfig, c.Apps.Rest.Port)
	}
	return nil
}

// ClientConfig maps the client section. Zero values are filled with the
// transport defaults.
func (c *Config) ClientConfig(logger *zap.Logger) client.Config {
	cc := c.Apps.Client
	return client.Config{
		Transport: transport.Config{
			Endpoint:         cc.Endpoint,
			HandshakeTimeout: cc.HandshakeTimeout,
			WriteTimeout:     cc.WriteTimeout,
			PingInterval:     cc.PingInterval,
			PongWait:         cc.PongWait,
			QueueSize:        cc.QueueSize,
			SendRate:         cc.SendRate,
			SendBurst:        cc.SendBurst,
			Reconnect: transport.ReconnectPolicy{
				Enabled:      cc.Reconnect.Enabled,
				InitialDelay: cc.Reconnect.InitialDelay,
				MaxDelay:     cc.Reconnect.MaxDelay,
				Multiplier:   cc.Reconnect.Multiplier,
				MaxAttempts:  cc.Reconnect.MaxAttempts,
			},
		},
		InboxSize: cc.InboxSize,
		Logger:    logger,
	}
}

func (c *Config) RestConfig(logger *zap.Logger) *rest.Config {
	return &rest.Config{
		Port:              c.Apps.Rest.Port,
		CanvasStorageType: c.Storage.Canvas.Type,
		CanvasLimit:       c.Storage.Canvas.Limit,
		ChatCacheType:     c.Storage.Chat.Type,
		ChatHistorySize:   c.Storage.Chat.Size,
		Logger:            logger,
	}
}
