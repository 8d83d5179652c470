package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/adzkyyy/adCTF/internal/logger"
	"github.com/adzkyyy/adCTF/internal/validator"
)

type PostgresConfig struct {
	User               string        `validate:"required"`
	Password           string        `validate:"required"`
	Host               string        `validate:"required"`
	Database           string        `validate:"required"`
	MaxIdleConnections int           `validate:"required" mapstructure:"max_idle_connections"`
	MaxOpenConnections int           `validate:"required" mapstructure:"max_open_connections"`
	ConnectionTTL      time.Duration `validate:"required" mapstructure:"connection_ttl"`
	Port               int16         `validate:"required"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type GormLogConfig struct {
	Level        int  `mapstructure:"level"`
	TraceQueries bool `mapstructure:"trace_queries"`
}

type LoggingConfig struct {
	Gorm    GormLogConfig `mapstructure:"gorm"`
	App     SlogConfig    `mapstructure:"app"`
	UseOTLP bool          `mapstructure:"use_otlp"`
}

type SchedulerConfig struct {
	// "interval" is the precise timer strategy, "polling" the database
	// anchored fallback loop.
	Strategy         string `mapstructure:"strategy"           validate:"omitempty,oneof=interval polling"`
	MisfireGraceSecs int    `mapstructure:"misfire_grace_secs"`
}

type ChallengeConfig struct {
	// Tick duration written to the config row when none exists yet.
	DefaultTickSeconds int `mapstructure:"default_tick_seconds" validate:"required,min=1"`
}

type ScoreboardConfig struct {
	CacheWindowSecs int `mapstructure:"cache_window_secs" validate:"required,min=1"`
}

type ProbeConfig struct {
	TimeoutSecs int `mapstructure:"timeout_secs" validate:"required,min=1"`
}

type OperatorConfig struct {
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// See adctf.yaml for an example config
type Config struct {
	Postgres             *PostgresConfig   `mapstructure:"postgres"               validate:"required"`
	Redis                *RedisConfig      `mapstructure:"redis"                  validate:"required"`
	Logging              *LoggingConfig    `mapstructure:"logging"`
	Scheduler            *SchedulerConfig  `mapstructure:"scheduler"`
	Challenge            *ChallengeConfig  `mapstructure:"challenge"              validate:"required"`
	Scoreboard           *ScoreboardConfig `mapstructure:"scoreboard"             validate:"required"`
	Probe                *ProbeConfig      `mapstructure:"probe"                  validate:"required"`
	Operator             *OperatorConfig   `mapstructure:"operator"               validate:"required"`
	ListenAddress        string            `mapstructure:"listen_address"         validate:"required"`
	GracefulShutdownSecs int64             `mapstructure:"graceful_shutdown_secs"`
}

const (
	AppLogLevel                string = "logging.app.level"
	ChallengeDefaultTickSecs   string = "challenge.default_tick_seconds"
	EnvPrefix                  string = "adctf"
	GormLogLevel               string = "logging.gorm.level"
	GormTraceQueries           string = "logging.gorm.trace_queries"
	GracefulShutdownSecs       string = "graceful_shutdown_secs"
	ListenAddress              string = "listen_address"
	OperatorPassword           string = "operator.password"
	OperatorUsername           string = "operator.username"
	PostgresDatabase           string = "postgres.database"
	PostgresHost               string = "postgres.host"
	PostgresPassword           string = "postgres.password"
	PostgresPort               string = "postgres.port"
	PostgresUser               string = "postgres.user"
	PostgresMaxIdleConnections string = "postgres.max_idle_connections"
	PostgresMaxOpenConnections string = "postgres.max_open_connections"
	PostgresConnectionTTL      string = "postgres.connection_ttl"
	ProbeTimeoutSecs           string = "probe.timeout_secs"
	RedisDB                    string = "redis.db"
	RedisHost                  string = "redis.host"
	RedisPassword              string = "redis.password"
	SchedulerMisfireGraceSecs  string = "scheduler.misfire_grace_secs"
	SchedulerStrategy          string = "scheduler.strategy"
	ScoreboardCacheWindowSecs  string = "scoreboard.cache_window_secs"
	UseOTLP                    string = "logging.use_otlp"
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("adctf")

	v.AddConfigPath("/etc/adctf/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested struct
	for _, key := range []string{PostgresPassword, RedisPassword, OperatorPassword} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault(ListenAddress, "[::]:1323")
	v.SetDefault(PostgresHost, "localhost")
	v.SetDefault(PostgresPort, 5432)
	v.SetDefault(PostgresMaxIdleConnections, 2)
	v.SetDefault(PostgresMaxOpenConnections, 10)
	v.SetDefault(PostgresConnectionTTL, 10*time.Minute)
	v.SetDefault(GormLogLevel, int(slog.LevelWarn))
	v.SetDefault(GormTraceQueries, false)
	v.SetDefault(AppLogLevel, int(slog.LevelInfo))

	v.SetDefault(RedisHost, "localhost:6379")
	v.SetDefault(RedisDB, 0)

	v.SetDefault(SchedulerStrategy, "interval")
	v.SetDefault(SchedulerMisfireGraceSecs, 5)

	v.SetDefault(ChallengeDefaultTickSecs, 60)
	v.SetDefault(ScoreboardCacheWindowSecs, 60)
	v.SetDefault(ProbeTimeoutSecs, 5)

	v.SetDefault(UseOTLP, false)

	v.SetDefault(GracefulShutdownSecs, 30)

	err := v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(*viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	configReady = true
	return &config, nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s",
		url.QueryEscape(c.Postgres.User),
		url.QueryEscape(c.Postgres.Password),
		c.Postgres.Host, c.Postgres.Port,
		url.QueryEscape(c.Postgres.Database),
	)
}

func (c *Config) MisfireGrace() time.Duration {
	if c.Scheduler == nil || c.Scheduler.MisfireGraceSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Scheduler.MisfireGraceSecs) * time.Second
}

func (c *Config) CacheWindow() time.Duration {
	return time.Duration(c.Scoreboard.CacheWindowSecs) * time.Second
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSecs) * time.Second
}
