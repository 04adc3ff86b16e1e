package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

var fetchPromote bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [dataset...]",
	Short: "Fetch datasets from the API into the cache",
	Long: `Fetch datasets from api.data.gov.in into the API cache directory.

With no arguments every dataset is fetched. Use --promote to copy each
valid fetch over the saved copy.`,

	ValidArgs: dataset.NewRegistry().AllNames(),
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		out := cmd.OutOrStdout()
		env, err := initEnv(out)
		if err != nil {
			return err
		}

		zap.L().Info("starting fetch",
			zap.Strings("datasets", args),
			zap.Bool("promote", fetchPromote),
		)
		outcomes, runErr := env.Engine.Run(ctx, dataset.RunOpts{
			Datasets: args,
			Promote:  fetchPromote,
		})
		formatOutcomes(out, outcomes)
		if runErr != nil {
			return eris.Wrap(runErr, "fetch")
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchPromote, "promote", false, "copy each valid fetch over the saved copy")
	rootCmd.AddCommand(fetchCmd)
}

// formatOutcomes writes one line per fetched dataset to w.
func formatOutcomes(out io.Writer, outcomes []dataset.Outcome) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\nDATASET\tROWS\tATTEMPTS\tPATH\tRESULT")
	for _, o := range outcomes {
		rows, attempts, path := "-", "-", "-"
		if o.Result != nil {
			rows = fmt.Sprint(o.Result.Rows)
			attempts = fmt.Sprint(o.Result.Attempts)
			path = o.Result.Path
		}
		result := "ok"
		switch {
		case o.Err != nil:
			result = truncate(o.Err.Error(), 80)
		case o.Promoted != "":
			result = "promoted to " + o.Promoted
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.Dataset.Name(), rows, attempts, path, result)
	}
	_ = w.Flush()
}
