package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/table"
)

var exportCmd = &cobra.Command{
	Use:   "export <dataset>",
	Short: "Export a cached dataset to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source, _ := cmd.Flags().GetString("source")
		outPath, _ := cmd.Flags().GetString("out")

		env, err := initEnv(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		ds, path, err := resolveDataset(ctx, env, args[0], source)
		if err != nil {
			return err
		}
		if outPath == "" {
			outPath = ds.Name() + ".xlsx"
		}

		t, err := table.Load(ctx, path)
		if err != nil {
			return eris.Wrapf(err, "export: load %s", path)
		}
		if err := table.WriteXLSX(outPath, ds.Name(), t); err != nil {
			return err
		}

		zap.L().Info("exported dataset",
			zap.String("dataset", ds.Name()),
			zap.String("from", path),
			zap.String("to", outPath),
			zap.Int("rows", t.Len()),
		)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s rows to %s\n", t.Len(), ds.Topic(), outPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("source", "api", "cached copy to export: api or saved")
	exportCmd.Flags().String("out", "", "output workbook path (default <dataset>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
