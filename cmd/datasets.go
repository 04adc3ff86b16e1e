package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/dharti-cli/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets and the state of their cached copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		formatDatasets(cmd.Context(), cmd.OutOrStdout(), env.Registry, env.Store)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

// formatDatasets writes each dataset's description, then one row per dataset
// and cached copy to out.
func formatDatasets(ctx context.Context, out io.Writer, reg *dataset.Registry, store *dataset.Store) {
	if ctx == nil {
		ctx = context.Background()
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, ds := range reg.All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", ds.Name(), ds.Description())
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATASET\tSOURCE\tSTATUS\tROWS\tFETCHED\tPROMOTED\tPATH")
	_, _ = fmt.Fprintln(w, "-------\t------\t------\t----\t-------\t--------\t----")

	for _, ds := range reg.All() {
		for _, st := range store.Status(ctx, ds) {
			status := "ok"
			if st.Err != nil {
				status = truncate(st.Err.Error(), 50)
			}
			rows, fetched, promoted := "-", "-", "-"
			if m := st.Manifest; m != nil {
				rows = fmt.Sprint(m.Rows)
				if !m.FetchedAt.IsZero() {
					fetched = m.FetchedAt.Local().Format("2006-01-02 15:04")
				}
				if m.PromotedAt != nil {
					promoted = m.PromotedAt.Local().Format("2006-01-02 15:04")
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				ds.Name(),
				st.Source,
				status,
				rows,
				fetched,
				promoted,
				st.Path,
			)
		}
	}
	_ = w.Flush()
}
