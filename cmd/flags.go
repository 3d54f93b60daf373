package cmd

import (
	"time"

	"github.com/urfave/cli/v2"
)

const defaultPushURI = "wss://cinf-wsserver.fysik.dtu.dk:9002"

// Flags are the command line options of the livesync command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "hostname",
			Usage:    "device hostname, qualifies every subscription",
			EnvVars:  []string{"MACHINE", "LIVESYNC_HOSTNAME"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "device-url",
			Usage:   "base URL of the device web app, defaults to http://<hostname>/",
			EnvVars: []string{"DEVICE_URL"},
		},
		&cli.IntFlag{
			Name:    "indicator-count",
			EnvVars: []string{"INDICATOR_COUNT"},
			Value:   6,
		},
		&cli.StringFlag{
			Name:    "push-uri",
			EnvVars: []string{"PUSH_URI"},
			Value:   defaultPushURI,
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			EnvVars: []string{"POLL_INTERVAL"},
			Value:   5000 * time.Millisecond,
		},
		&cli.StringFlag{
			Name:    "color-scheme",
			EnvVars: []string{"COLOR_SCHEME"},
			Value:   "green",
		},
		&cli.StringFlag{
			Name:    "color-schemes-file",
			Usage:   "yaml file with extra color schemes",
			EnvVars: []string{"COLOR_SCHEMES_FILE"},
		},
		&cli.BoolFlag{
			Name:    "ssl-skip-verify",
			EnvVars: []string{"SSL_SKIP_VERIFY"},
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "address of the status API, empty disables it",
			EnvVars: []string{"LISTEN_ADDR"},
			Value:   "0.0.0.0:8000",
		},
		&cli.BoolFlag{
			Name:    "keyboard",
			Usage:   "read key presses from the terminal",
			EnvVars: []string{"KEYBOARD"},
		},
		&cli.StringFlag{
			Name:    "mqtt-host",
			EnvVars: []string{"MQTT_HOST"},
			Value:   "",
		},
		&cli.StringFlag{
			Name:    "mqtt-user",
			EnvVars: []string{"MQTT_USER"},
			Value:   "",
		},
		&cli.StringFlag{
			Name:    "mqtt-pass",
			EnvVars: []string{"MQTT_PASS"},
			Value:   "",
		},
		&cli.BoolFlag{
			Name:    "debug",
			EnvVars: []string{"DEBUG"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "INFO",
		},
	}
}
