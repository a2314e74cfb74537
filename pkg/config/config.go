// Package config loads kanjikai's configuration.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds remote dictionary settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"       env:"KANJIKAI_API_URL"        env-default:"https://kanjiapi.dev/v1"`
	Timeout      time.Duration `yaml:"timeout"        env:"KANJIKAI_API_TIMEOUT"    env-default:"10s"`
	UserAgent    string        `yaml:"user_agent"     env:"KANJIKAI_USER_AGENT"     env-default:"kanjikai-cli"`
	CorpusPath   string        `yaml:"corpus_path"    env:"KANJIKAI_CORPUS_PATH"    env-default:"words"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"KANJIKAI_MAX_BODY_BYTES" env-default:"67108864"`
}

// CacheConfig holds the persistent response cache settings. An empty DBPath
// disables it.
type CacheConfig struct {
	DBPath        string        `yaml:"db_path"        env:"KANJIKAI_CACHE_DB"             env-default:""`
	BatchSize     int           `yaml:"batch_size"     env:"KANJIKAI_CACHE_BATCH_SIZE"     env-default:"50"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"KANJIKAI_CACHE_FLUSH_INTERVAL" env-default:"100ms"`
}

// LookupConfig holds lookup engine settings.
type LookupConfig struct {
	RetryFailed bool `yaml:"retry_failed" env:"KANJIKAI_RETRY_FAILED" env-default:"false"`
	Workers     int  `yaml:"workers"      env:"KANJIKAI_WORKERS"      env-default:"4"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Romaji       bool   `yaml:"romaji"        env:"KANJIKAI_ROMAJI"        env-default:"false"`
	JoyoFile     string `yaml:"joyo_file"     env:"KANJIKAI_JOYO_FILE"`
	JinmeiyoFile string `yaml:"jinmeiyo_file" env:"KANJIKAI_JINMEIYO_FILE"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"KANJIKAI_LOG" env-default:"error"`
}
