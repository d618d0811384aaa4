package store

import (
	"time"

	"certifica/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	AutoMigrate bool

	ConnectRetries int           // ping attempts before Open gives up
	PingTimeout    time.Duration // per attempt
}

// CHConfig configures the clickhouse audit sink
type CHConfig struct {
	Enabled bool
	URL     string
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CH_*
func FromConfig(cfg config.Conf, appName string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	ch := cfg.Prefix("SERVICE_CH_")

	out := Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        pg.MayBool("ENABLED", true),
			URL:            pg.MayString("DBURL", ""),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 10)),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 250),
			AutoMigrate:    pg.MayBool("AUTO_MIGRATE", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: ch.MayBool("ENABLED", false),
			URL:     ch.MayString("DBURL", ""),
		},
	}
	if out.PG.Enabled {
		pg.Require("DBURL")
	}
	if out.CH.Enabled {
		ch.Require("DBURL")
	}
	return out
}
