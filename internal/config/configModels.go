package config

import "time"

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer HttpServerConfig `yaml:"httpServer" env-required:"true"`
	DBConfig   DBConfig         `yaml:"db" env-required:"true"`
	Scraper    ScraperConfig    `yaml:"scraper" env-required:"true"`
}

type HttpServerConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost"`
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
	Secret  string        `yaml:"secret" env:"HTTP_SECRET" env-required:"true"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
}

type ScraperConfig struct {
	JobBufferSize int `yaml:"jobBufferSize" env:"SCRAPER_JOB_BUFFER_SIZE" env-default:"16"`
	WorkersCount  int `yaml:"workersCount" env:"SCRAPER_WORKERS_COUNT" env-default:"3"`
	// FetchTimeout bounds every outbound HTTP call, in seconds.
	FetchTimeout int `yaml:"fetchTimeout" env:"SCRAPER_FETCH_TIMEOUT" env-default:"15"`
	// JobTimeout bounds one whole adapter run, in minutes. Crawling
	// adapters fetch dozens of pages per run.
	JobTimeout int `yaml:"jobTimeoutMinutes" env:"SCRAPER_JOB_TIMEOUT_MINUTES" env-default:"10"`
	// IntervalHours is the scheduled ingest cadence.
	IntervalHours int `yaml:"intervalHours" env:"SCRAPER_INTERVAL_HOURS" env-default:"4"`
	// RetentionDays is the age past which started events are purged.
	RetentionDays int `yaml:"retentionDays" env:"SCRAPER_RETENTION_DAYS" env-default:"30"`
	// Timezone is the IANA zone events are normalized into.
	Timezone string `yaml:"timezone" env:"SCRAPER_TIMEZONE" env-default:"America/New_York"`
	// Region filters listings to a state/region code.
	Region string `yaml:"region" env:"SCRAPER_REGION" env-default:"PA"`
	// DefaultHour is the civil hour assumed when a source gives a date
	// with no time of day. Midnight usually means "unknown" upstream.
	DefaultHour int `yaml:"defaultHour" env:"SCRAPER_DEFAULT_HOUR" env-default:"10"`
}
