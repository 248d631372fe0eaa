package config

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ConfigSchema is the fully merged client configuration.
type ConfigSchema struct {
	// URL of the chat server, without the /v1/chat suffix (it is
	// accepted if present).
	URL       string `mapstructure:"url" validate:"required,url"`
	APIKey    string `mapstructure:"api_key"`
	SessionID string `mapstructure:"session_id"`

	// HistoryPath is the SQLite database conversations are recorded in.
	HistoryPath string `mapstructure:"history_path" validate:"required"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `mapstructure:"timeout" validate:"gte=0"`

	ShowTiming bool `mapstructure:"show_timing"`
	Debug      bool `mapstructure:"debug"`

	Log Log `mapstructure:"log"`
}

// RuntimeOverrides carry CLI flag values that take precedence over every
// other config source.
type RuntimeOverrides struct {
	URL       *string
	APIKey    *string
	SessionID *string
	LogLevel  *string
	LogFile   *string
}
