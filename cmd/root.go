package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/config"
	"github.com/sells-group/dharti-cli/internal/menu"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dharti-cli",
	Short: "DhartiMetrics: Indian open environmental data explorer",
	Long: `Fetches plastic waste and wastewater datasets from api.data.gov.in, caches them as CSV files,
projects future values, and renders charts.

Run without a subcommand for the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		out := cmd.OutOrStdout()
		env, err := initEnv(out)
		if err != nil {
			return err
		}

		plastic, bod := env.PredictParams()
		app := menu.New(menu.Deps{
			In:         cmd.InOrStdin(),
			Out:        out,
			Registry:   env.Registry,
			Store:      env.Store,
			Syncer:     env.Engine,
			Renderer:   env.Renderer,
			Plastic:    plastic,
			BOD:        bod,
			DataSource: cfg.API.BaseURL,
		})
		return app.Run(ctx)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
