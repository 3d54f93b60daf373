package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DeviceCfg   *DeviceConfig
	MqttCfg     *MqttConfig
	Tuning      *Tuning
	ColorScheme ColorScheme
	ListenAddr  string
	Keyboard    bool
	Debug       bool
	LogLevel    string
}

type DeviceConfig struct {
	// Host is the device hostname used to qualify subscriptions.
	Host string
	// BaseURL is where the device web app serves get/ and set/.
	BaseURL        string
	IndicatorCount int
	PushURI        string
	PollInterval   time.Duration
	SslSkipVerify  bool
}

type MqttConfig struct {
	Host     string
	Username string
	Password string
}

// Tuning holds knobs that rarely change, read from LIVESYNC_* environment variables.
type Tuning struct {
	ReadbackDelay    time.Duration `env:"READBACK_DELAY" envDefault:"100ms"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"15s"`
	PingInterval     time.Duration `env:"PING_INTERVAL" envDefault:"30s"`
	MaxMessageSize   int64         `env:"MAX_MESSAGE_SIZE" envDefault:"100000"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
	InputStep        float64       `env:"INPUT_STEP" envDefault:"0.05"`
	InputMin         float64       `env:"INPUT_MIN" envDefault:"0"`
	InputMax         float64       `env:"INPUT_MAX" envDefault:"1"`
	ReportSchedule   string        `env:"REPORT_SCHEDULE" envDefault:"@every 1m"`
}

const tuningPrefix = "LIVESYNC_"

func LoadTuning() (*Tuning, error) {
	t, err := env.ParseAsWithOptions[Tuning](env.Options{Prefix: tuningPrefix})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
