package config

// Settings is the on-disk configuration for a cinebox server.
type Settings struct {
	Server  ServerSettings  `json:"server"`
	TMDB    TMDBSettings    `json:"tmdb"`
	Storage StorageSettings `json:"storage"`
	UI      UISettings      `json:"ui"`
	Log     LogSettings     `json:"log"`
}

// ServerSettings controls the HTTP listener.
type ServerSettings struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty"` // extra websocket origins beyond the LAN defaults
	RatePerMinute  int      `json:"ratePerMinute"`            // per-client API + websocket budget, 0 disables
	RateBurst      int      `json:"rateBurst"`
}

// TMDBSettings configures the upstream metadata API.
type TMDBSettings struct {
	APIKey         string `json:"apiKey"`
	BaseURL        string `json:"baseUrl"`
	ImageBaseURL   string `json:"imageBaseUrl"`
	PrimaryLocale  string `json:"primaryLocale"`
	FallbackLocale string `json:"fallbackLocale"`
}

// StorageBackend selects where per-client state lives.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
	StorageRedis  StorageBackend = "redis"
)

// StorageSettings configures the per-client key-value store.
type StorageSettings struct {
	Backend  StorageBackend `json:"backend"`
	DataDir  string         `json:"dataDir"`
	RedisURL string         `json:"redisUrl,omitempty"`
}

// UISettings holds the timings of the browsing session.
type UISettings struct {
	SearchDebounceMs int `json:"searchDebounceMs"`
	ScrollSettleMs   int `json:"scrollSettleMs"`
}

// LogSettings configures the rotating log file. An empty File logs to stdout only.
type LogSettings struct {
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host:          "0.0.0.0",
			Port:          7878,
			RatePerMinute: 600,
			RateBurst:     60,
		},
		TMDB: TMDBSettings{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500",
			PrimaryLocale:  "es-ES",
			FallbackLocale: "en-US",
		},
		Storage: StorageSettings{
			Backend: StorageFile,
			DataDir: "./data",
		},
		UI: UISettings{
			SearchDebounceMs: 500,
			ScrollSettleMs:   500,
		},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
