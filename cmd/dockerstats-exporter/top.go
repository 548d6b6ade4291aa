package main

import (
	"errors"
	"io"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rusenback/docker-stats-exporter/internal/app"
	"github.com/rusenback/docker-stats-exporter/internal/ingest"
	"github.com/rusenback/docker-stats-exporter/internal/logging"
	"github.com/rusenback/docker-stats-exporter/internal/tui"
)

// NewTopCmd shows the collected metrics in the terminal instead of exporting them
func NewTopCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Show the live container metrics in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			log := logrus.StandardLogger()
			closer, err := logging.Setup(log, cfg.Log)
			if err != nil {
				return err
			}
			defer closer.Close()
			if cfg.Log.File == "" {
				// keep the terminal for the UI
				log.SetOutput(io.Discard)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a := app.New(cfg, log)
			defer a.Store().Close()

			go func() {
				if err := a.Ingest(ctx, ingest.New(a.Store(), log)); err != nil {
					log.WithError(err).Error("Stats ingestion stopped")
				}
			}()

			p := tea.NewProgram(tui.NewModel(a.Store()), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}
