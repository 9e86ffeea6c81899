package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"admissions-explorer/internal/app"
	"admissions-explorer/internal/domain"
)

// newApp wires the services without opening the warehouse.
func (rt *runtime) newApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, app.Deps{Cfg: rt.cfg, Logger: rt.logger, SkipWarehouse: true})
}

func datasetNames() string {
	names := make([]string, 0, len(domain.Datasets))
	for _, d := range domain.Datasets {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

func newCleanCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <dataset>",
		Short: "Load, clean, and print one dataset",
		Long:  fmt.Sprintf("Load, clean, and print one dataset (%s). --term and --category filter the rows.", datasetNames()),
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return strings.Split(datasetNames(), ", "), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDataset(args[0])
			if err != nil {
				return err
			}
			return rt.printDataset(cmd, d)
		},
	}
}

func newJoinCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Print applications joined with admits on fall term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.printDataset(cmd, domain.DatasetJoined)
		},
	}
}

func (rt *runtime) printDataset(cmd *cobra.Command, d domain.Dataset) error {
	a, err := rt.newApp(cmd.Context())
	if err != nil {
		return err
	}
	t, err := a.Datasets.Filtered(cmd.Context(), d, rt.selection(cmd))
	if err != nil {
		return err
	}
	return printTable(cmd, t, t)
}

func newPercentagesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "percentages <gpa|ethnicity|applications>",
		Short: "Print each category's share of its term's applicants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDataset(args[0])
			if err != nil {
				return err
			}
			a, err := rt.newApp(cmd.Context())
			if err != nil {
				return err
			}
			pct, err := a.Datasets.Percentages(cmd.Context(), d, rt.selection(cmd))
			if err != nil {
				return err
			}
			return printTable(cmd, pct, pct)
		},
	}
}

func newAcceptanceRateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "acceptance-rate",
		Short: "Print admits divided by applicants per fall term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.newApp(cmd.Context())
			if err != nil {
				return err
			}
			rates, err := a.Datasets.AcceptanceRates(cmd.Context(), rt.selection(cmd))
			if err != nil {
				return err
			}
			return printTable(cmd, rates, rates)
		},
	}
}
