package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required,notEmpty"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret     string `env:"SECRET,required,notEmpty"`
		CookieName string `env:"COOKIE_NAME" envDefault:"access_token"`
	} `envPrefix:"JWT_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required,notEmpty"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		Queue          string `env:"QUEUE" envDefault:"schedule_events"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		WeekDataTTL         int    `env:"WEEK_DATA_TTL" envDefault:"300"` // 5 分钟
	} `envPrefix:"REDIS_"`
	Schedule struct {
		TimeZone string `env:"TIME_ZONE" envDefault:"America/New_York"`
		// 未指定时发布默认使用严格模式
		DefaultStrictMode bool `env:"DEFAULT_STRICT_MODE" envDefault:"true"`
	} `envPrefix:"SCHEDULE_"`
	Seed struct {
		EmployeeCount int     `env:"EMPLOYEE_COUNT" envDefault:"10"`
		HourlyRateMin float64 `env:"HOURLY_RATE_MIN" envDefault:"15"`
		HourlyRateMax float64 `env:"HOURLY_RATE_MAX" envDefault:"30"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
