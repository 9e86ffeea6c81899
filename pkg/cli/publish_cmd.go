package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"admissions-explorer/internal/app"
)

func newPublishCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Write cleaned CSVs and replace the warehouse tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), app.Deps{Cfg: rt.cfg, Logger: rt.logger})
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			res, err := a.Publish(cmd.Context())
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Published run %s to %s\n", res.Run.ID, rt.cfg.WarehouseDBPath)
			_, _ = fmt.Fprintf(out, "  applications=%d gpa=%d ethnicity=%d admits=%d\n",
				res.Run.Applications, res.Run.GPA, res.Run.Ethnicity, res.Run.Admits)
			for _, f := range res.Files {
				_, _ = fmt.Fprintf(out, "  wrote %s\n", f)
			}
			return nil
		},
	}
}
