package main

import (
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rusenback/docker-stats-exporter/internal/app"
	"github.com/rusenback/docker-stats-exporter/internal/config"
	"github.com/rusenback/docker-stats-exporter/internal/logging"
)

const envPrefix = "DOCKERSTATS"

// NewRootCmd builds the exporter command with its own viper instance
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dockerstats-exporter",
		Short: "Export docker stats to Prometheus or InfluxDB",
		Long: `
dockerstats-exporter: container resource usage for your metrics backend

Reads "docker stats" continuously and either serves the latest values
per container on /metrics for Prometheus, or writes every sample to
InfluxDB or a Prometheus pushgateway.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			// configuration is valid, runtime failures are not usage errors
			cmd.SilenceUsage = true

			log := logrus.StandardLogger()
			closer, err := logging.Setup(log, cfg.Log)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.WithFields(logrus.Fields{
				"target": cfg.Target,
				"source": cfg.Source,
			}).Info("Starting dockerstats-exporter")
			return app.New(cfg, log).Run(ctx)
		},
	}

	addFlags(cmd, v)
	cmd.AddCommand(NewTopCmd(v))

	// Disable Help subcommand
	cmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return cmd
}

func addFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (YAML)")
	flags.String("target", config.DefaultTarget, "prometheus, influxdb or pushgateway")
	flags.IntP("port", "p", config.DefaultPort, "Port for HTTP (Prometheus) or the push target")
	flags.String("host", config.DefaultHost, "Push target host")
	flags.String("db", config.DefaultDatabase, "InfluxDB database")
	flags.String("measurement", config.DefaultMeasurement, "InfluxDB measurement or pushgateway job")
	flags.String("source", config.DefaultSource, "cli (spawn docker stats) or api (Docker Engine API)")
	flags.String("docker-bin", config.DefaultDockerBin, "docker binary used by the cli source")
	flags.String("docker-host", "", "Docker Engine address used by the api source (default $DOCKER_HOST)")
	flags.Duration("evict-after", 0, "forget containers without samples for this long (0 keeps them)")
	flags.Duration("sink-timeout", 5*time.Second, "timeout of a single push write")
	flags.String("log-level", config.DefaultLogLevel, "panic, fatal, error, warn, info, debug or trace")
	flags.String("log-format", config.DefaultLogFormat, "text or json")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")

	config.SetDefaults(v)
	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &config.Config{}
	if err := cfg.Load(v); err != nil {
		return nil, err
	}
	return cfg, nil
}
