package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

var plotCmd = &cobra.Command{
	Use:   "plot <dataset>",
	Short: "Render charts of a cached dataset to PNG files",
	Long: `Render charts of a cached dataset into the plot directory.

plastic_waste needs --state for the per-state charts and/or --year
(e.g. 2020-21) for the comparison across states. wastewater takes no
selection flags.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: dataset.NewRegistry().AllNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		state, _ := cmd.Flags().GetString("state")
		year, _ := cmd.Flags().GetString("year")
		source, _ := cmd.Flags().GetString("source")

		env, err := initEnv(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		ds, path, err := resolveDataset(ctx, env, args[0], source)
		if err != nil {
			return err
		}

		var files []string
		switch ds.(type) {
		case *dataset.PlasticWaste:
			if state == "" && year == "" {
				return eris.New("plot: plastic_waste needs --state, --year, or both")
			}
			rows, err := dataset.LoadPlasticWaste(path)
			if err != nil {
				return err
			}
			if state != "" {
				row, ok := dataset.FindState(rows, state, dataset.PlasticWasteState)
				if !ok {
					return eris.Errorf("plot: no data found for state %q", state)
				}
				paths, err := env.Renderer.PlasticWasteState(ctx, row)
				if err != nil {
					return err
				}
				files = append(files, paths...)
			}
			if year != "" {
				p, err := env.Renderer.PlasticWasteComparison(ctx, rows, year)
				if err != nil {
					return err
				}
				files = append(files, p)
			}
		case *dataset.Wastewater:
			rows, err := dataset.LoadWastewater(path)
			if err != nil {
				return err
			}
			files, err = env.Renderer.Wastewater(ctx, rows)
			if err != nil {
				return err
			}
		default:
			return eris.Errorf("plot: not supported for %s", ds.Name())
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s plots saved to %s:\n", ds.Topic(), env.Renderer.Dir())
		for _, f := range files {
			_, _ = fmt.Fprintf(out, "  - %s\n", f)
		}
		return nil
	},
}

func init() {
	plotCmd.Flags().String("state", "", "state or union territory for per-state charts")
	plotCmd.Flags().String("year", "", "reporting year for the comparison chart (e.g., 2020-21)")
	plotCmd.Flags().String("source", "api", "cached copy to read: api or saved")
	rootCmd.AddCommand(plotCmd)
}
