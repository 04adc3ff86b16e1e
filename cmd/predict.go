package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/dharti-cli/internal/dataset"
	"github.com/sells-group/dharti-cli/internal/predict"
)

var predictCmd = &cobra.Command{
	Use:   "predict <dataset>",
	Short: "Project a state's figure to a future year",
	Args:  cobra.ExactArgs(1),

	ValidArgs: dataset.NewRegistry().AllNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		state, _ := cmd.Flags().GetString("state")
		year, _ := cmd.Flags().GetInt("year")
		source, _ := cmd.Flags().GetString("source")

		env, err := initEnv(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		ds, path, err := resolveDataset(ctx, env, args[0], source)
		if err != nil {
			return err
		}

		plasticParams, bodParams := env.PredictParams()
		var pred *predict.Prediction
		switch ds.(type) {
		case *dataset.PlasticWaste:
			rows, err := dataset.LoadPlasticWaste(path)
			if err != nil {
				return err
			}
			pred, err = predict.PlasticWaste(rows, state, year, plasticParams)
			if err != nil {
				return err
			}
		case *dataset.Wastewater:
			rows, err := dataset.LoadWastewater(path)
			if err != nil {
				return err
			}
			pred, err = predict.BODLoad(rows, state, year, bodParams)
			if err != nil {
				return err
			}
		default:
			return eris.Errorf("predict: not supported for %s", ds.Name())
		}

		printPrediction(cmd, pred)
		return nil
	},
}

func init() {
	predictCmd.Flags().String("state", "", "state or union territory name")
	predictCmd.Flags().Int("year", 0, "future year to project to")
	predictCmd.Flags().String("source", "api", "cached copy to read: api or saved")
	_ = predictCmd.MarkFlagRequired("state")
	_ = predictCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(predictCmd)
}

func printPrediction(cmd *cobra.Command, pred *predict.Prediction) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, pred.Summary())
	_, _ = fmt.Fprintf(out, "Impact level: %s\n", pred.Level)
	_, _ = fmt.Fprintln(out, "Impacts:")
	for _, impact := range pred.Impacts {
		_, _ = fmt.Fprintf(out, "  - %s\n", impact)
	}
}
