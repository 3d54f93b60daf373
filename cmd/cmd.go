package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/bakeout-livesync/internal/pkg/config"
	"github.com/anicoll/bakeout-livesync/internal/pkg/device"
	"github.com/anicoll/bakeout-livesync/internal/pkg/display"
	"github.com/anicoll/bakeout-livesync/internal/pkg/keyboard"
	"github.com/anicoll/bakeout-livesync/internal/pkg/livesync"
	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
	"github.com/anicoll/bakeout-livesync/internal/pkg/mqtt"
	"github.com/anicoll/bakeout-livesync/internal/pkg/publisher"
	"github.com/anicoll/bakeout-livesync/internal/pkg/registry"
	"github.com/anicoll/bakeout-livesync/internal/pkg/report"
	"github.com/anicoll/bakeout-livesync/internal/pkg/server"
)

const deviceModel = "bakeout"

func LiveSyncCommand(ctx *cli.Context) error {
	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	dev, err := device.New(cfg.DeviceCfg.BaseURL, cfg.Tuning.HTTPTimeout, cfg.DeviceCfg.SslSkipVerify)
	if err != nil {
		return err
	}

	publishers := map[string]publisher.Publisher{}
	if cfg.MqttCfg.Host != "" {
		mqttSvc, err := newMqtt(cfg)
		if err != nil {
			return err
		}
		publishers["mqtt"] = mqttSvc
	}

	return run(ctx.Context, cfg, dev, publishers)
}

func configFromFlags(ctx *cli.Context) (*config.Config, error) {
	tuning, err := config.LoadTuning()
	if err != nil {
		return nil, err
	}
	schemes, err := config.LoadColorSchemes(ctx.String("color-schemes-file"))
	if err != nil {
		return nil, err
	}
	scheme, err := schemes.Lookup(ctx.String("color-scheme"))
	if err != nil {
		return nil, err
	}

	host := ctx.String("hostname")
	baseURL := ctx.String("device-url")
	if baseURL == "" {
		baseURL = "http://" + host + "/"
	}

	return &config.Config{
		DeviceCfg: &config.DeviceConfig{
			Host:           host,
			BaseURL:        baseURL,
			IndicatorCount: ctx.Int("indicator-count"),
			PushURI:        ctx.String("push-uri"),
			PollInterval:   ctx.Duration("poll-interval"),
			SslSkipVerify:  ctx.Bool("ssl-skip-verify"),
		},
		MqttCfg: &config.MqttConfig{
			Host:     ctx.String("mqtt-host"),
			Username: ctx.String("mqtt-user"),
			Password: ctx.String("mqtt-pass"),
		},
		Tuning:      tuning,
		ColorScheme: scheme,
		ListenAddr:  ctx.String("listen"),
		Keyboard:    ctx.Bool("keyboard"),
		Debug:       ctx.Bool("debug"),
		LogLevel:    ctx.String("log-level"),
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		logCfg.Level.SetLevel(zap.DebugLevel)
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func newMqtt(cfg *config.Config) (publisher.Publisher, error) {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.MqttCfg.Host).
		SetUsername(cfg.MqttCfg.Username).
		SetPassword(cfg.MqttCfg.Password).
		SetClientID(fmt.Sprintf("%s-livesync-%s", deviceModel, uuid.NewString())).
		SetAutoReconnect(true)
	svc := mqtt.New(paho_mqtt.NewClient(opts), cfg.DeviceCfg.Host)
	if err := svc.Connect(); err != nil {
		return nil, fmt.Errorf("connect to mqtt %s: %w", cfg.MqttCfg.Host, err)
	}
	return svc, nil
}

// run wires the session to its displays, the API, the keyboard and the status report, and
// blocks until ctx is done or one of them fails.
func run(ctx context.Context, cfg *config.Config, dev Device, publishers map[string]publisher.Publisher) error {
	logger := zap.L()
	eg, ctx := errgroup.WithContext(ctx)

	mem := display.NewMemory()
	var disp display.Display = mem
	if len(publishers) > 0 {
		reg := publisher.New(&model.Device{Host: cfg.DeviceCfg.Host, Model: deviceModel}, cfg.Tuning.HTTPTimeout)
		for name, p := range publishers {
			if err := reg.Register(name, p); err != nil {
				return err
			}
		}
		disp = display.Multi(mem, reg)
		eg.Go(func() error {
			return reg.Run(ctx)
		})
	}

	session, err := livesync.New(cfg, dev, disp)
	if err != nil {
		return err
	}

	eg.Go(func() error {
		return session.Run(ctx)
	})

	if cfg.ListenAddr != "" {
		eg.Go(func() error {
			return server.New(session, mem).Serve(ctx, cfg.ListenAddr)
		})
	}

	if cfg.Keyboard {
		logKeyBindings(logger, registry.New(cfg.DeviceCfg.IndicatorCount).Channels())
		eg.Go(func() error {
			return keyboard.Run(ctx, os.Stdin, session.KeyPress)
		})
	}

	eg.Go(func() error {
		return report.New(session).Run(ctx, cfg.Tuning.ReportSchedule)
	})

	err = eg.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, keyboard.ErrInterrupted) {
		logger.Info("context done", zap.Error(err))
		return nil
	}
	return err
}

func logKeyBindings(logger *zap.Logger, channels []int) {
	for _, channel := range channels {
		keys := keyboard.Keys(channel)
		if len(keys) != 2 {
			continue
		}
		logger.Info("key binding",
			zap.Int("channel", channel),
			zap.String("up", string(keys[0])),
			zap.String("down", string(keys[1])),
		)
	}
}
