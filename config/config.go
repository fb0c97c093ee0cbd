package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	App struct {
		Name string `mapstructure:"NAME"`
		Port string `mapstructure:"PORT"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"URL"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
		Mongo struct {
			Url string `mapstructure:"URL"`
		}
	}

	// COLLAB tunes the realtime room manager. Zero values fall back to the
	// defaults applied in LoadConfig, so a partial yaml block is fine.
	COLLAB struct {
		RoomSweepInterval        time.Duration `mapstructure:"ROOM_SWEEP_INTERVAL"`
		RoomInactiveAfter        time.Duration `mapstructure:"ROOM_INACTIVE_AFTER"`
		ParticipantSweepInterval time.Duration `mapstructure:"PARTICIPANT_SWEEP_INTERVAL"`
		ParticipantInactiveAfter time.Duration `mapstructure:"PARTICIPANT_INACTIVE_AFTER"`
	}

	WORKER struct {
		Num      int `mapstructure:"NUM"`
		MaxRetry int `mapstructure:"MAX_RETRY"`
	}
}

var Conf *AppConfig

func LoadConfig() error {
	viper.SetConfigName("application")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("STUDIOO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	applyDefaults(&config)

	Conf = &config
	log.Info().Msg("configuration loaded...")
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.COLLAB.RoomSweepInterval == 0 {
		c.COLLAB.RoomSweepInterval = 5 * time.Minute
	}
	if c.COLLAB.RoomInactiveAfter == 0 {
		c.COLLAB.RoomInactiveAfter = 30 * time.Minute
	}
	if c.COLLAB.ParticipantSweepInterval == 0 {
		c.COLLAB.ParticipantSweepInterval = 1 * time.Minute
	}
	if c.COLLAB.ParticipantInactiveAfter == 0 {
		c.COLLAB.ParticipantInactiveAfter = 15 * time.Minute
	}
	if c.WORKER.Num == 0 {
		c.WORKER.Num = 5
	}
	if c.WORKER.MaxRetry == 0 {
		c.WORKER.MaxRetry = 5
	}
}
