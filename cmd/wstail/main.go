// Command wstail connects to a WebSocket endpoint, optionally sends an
// initial message, and tails the decoded event stream to stdout until the
// connection ends or the process is interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isaqueDaSilva/wshandler/core"
	"github.com/isaqueDaSilva/wshandler/logger"
	"github.com/isaqueDaSilva/wshandler/pkg/wsframe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	initial      string
	pingInterval time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "wstail",
		Short:         "Tail the message stream of a WebSocket endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := logger.Init(logger.Config{
				Level:  viper.GetString("logging.level"),
				Output: viper.GetString("logging.output"),
			}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (default searches ., ./config, /etc/wstail)")
	flags.String("host", "", "endpoint host")
	flags.Int("port", 80, "endpoint port")
	flags.String("path", "/", "endpoint request path")
	flags.String("auth", "", "Authorization header value")
	flags.StringVar(&opts.initial, "initial", "", "JSON message to send once the upgrade completes")
	flags.DurationVar(&opts.pingInterval, "ping-interval", 30*time.Second, "keepalive ping interval (0 disables pings)")
	flags.String("log-level", "info", "log level (debug/info/warn/error)")

	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("path", flags.Lookup("path"))
	viper.BindPFlag("authorization", flags.Lookup("auth"))
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))

	return cmd
}

func loadConfig(configPath string) (core.Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("wstail")
	viper.AutomaticEnv()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/wstail")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Flags and env alone are a valid configuration.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return core.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg core.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return core.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg core.Config, opts *options) error {
	log := logger.Logger()

	svc, err := core.NewService(cfg, log)
	if err != nil {
		return err
	}

	var initial any
	if opts.initial != "" {
		initial = json.RawMessage(opts.initial)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("connecting", "host", cfg.Host, "port", cfg.Port, "path", cfg.Path)
	if err := svc.Start(ctx, initial); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var ticker *time.Ticker
	var pings <-chan time.Time
	if opts.pingInterval > 0 {
		ticker = time.NewTicker(opts.pingInterval)
		defer ticker.Stop()
		pings = ticker.C
	}

	events := svc.Events()
	for {
		select {
		case sig := <-sigChan:
			log.Info("received signal, disconnecting", "signal", sig)
			svc.Disconnect(wsframe.CloseGraceful, nil)
		case <-pings:
			if err := svc.SendPing(); err != nil {
				log.Warn("keepalive ping failed", "error", err)
			}
		case ev, ok := <-events:
			if !ok {
				log.Info("event stream ended")
				return nil
			}
			printEvent(log, ev)
		}
	}
}

func printEvent(log *slog.Logger, ev core.Event) {
	switch ev.Kind {
	case core.EventMessage:
		out, err := json.Marshal(ev.Message)
		if err != nil {
			log.Warn("message not printable", "error", err)
			return
		}
		fmt.Println(string(out))
	case core.EventError:
		log.Warn("stream error", "error", ev.Err)
	case core.EventFinished:
		log.Info("stream finished")
	}
}
