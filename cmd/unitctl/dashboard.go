package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

// DashboardOptions holds dashboard command options.
type DashboardOptions struct {
	Month    int
	Year     int
	Kind     string
	Page     int
	PageSize int
}

// DashboardCommand shows the monthly counts and one subset of failures.
type DashboardCommand struct{}

func (c *DashboardCommand) GetCobraCommand() *cobra.Command {
	var opts DashboardOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Monthly failure counts and details",
		Long: `Fetches units and failures side by side, joins them locally and
prints the counts of the month plus one page of the chosen subset.
If either fetch fails a notice is printed and the view renders empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.Run(cmd.Context(), getApp(cmd), opts)
		},
	}

	cmd.Flags().IntVar(&opts.Month, "mes", 0, "month 1-12 (default current month)")
	cmd.Flags().IntVar(&opts.Year, "ano", 0, "year (default current year)")
	cmd.Flags().StringVarP(&opts.Kind, "tipo", "t", string(dashboard.SubsetAll), "subset: ativas, fechadas or todas")
	cmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", dashboard.DefaultPageSize, "rows per page (10, 20 or 50)")
	_ = cmd.RegisterFlagCompletionFunc("tipo", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(dashboard.SubsetActive), string(dashboard.SubsetResolved), string(dashboard.SubsetAll)}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *DashboardCommand) Run(ctx context.Context, a *app, opts DashboardOptions) error {
	current := dashboard.PeriodOf(a.now())
	if opts.Month == 0 {
		opts.Month = int(current.Month)
	}
	if opts.Year == 0 {
		opts.Year = current.Year
	}
	period, err := dashboard.NewPeriod(opts.Month, opts.Year)
	if err != nil {
		return err
	}
	kind, err := dashboard.ParseSubset(opts.Kind)
	if err != nil {
		return err
	}
	if !slices.Contains(dashboard.PageSizes, opts.PageSize) {
		return fmt.Errorf("invalid page size %d, want one of %v", opts.PageSize, dashboard.PageSizes)
	}

	var (
		unitList    []*units.Unit
		failureList []*failures.Failure
		unitErr     error
		failureErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		unitList, unitErr = a.client.ListUnits(ctx)
		return nil
	})
	g.Go(func() error {
		failureList, failureErr = a.client.ListFailures(ctx, failures.Filter{})
		return nil
	})
	_ = g.Wait()

	if unitErr != nil {
		notice(a.out, "could not load units: %s", describe(unitErr))
	}
	if failureErr != nil {
		notice(a.out, "could not load failures: %s", describe(failureErr))
	}
	// aggregate only when both fetches succeeded
	if unitErr != nil || failureErr != nil {
		unitList, failureList = nil, nil
	}

	directory := make(map[units.ID]*units.Unit, len(unitList))
	for _, u := range unitList {
		directory[u.ID] = u
	}
	report := dashboard.Aggregate(directory, failureList, period)

	fmt.Fprintln(a.out, titleFmt("Dashboard %s", period))
	fmt.Fprintf(a.out, "Ativas: %s  Fechadas: %s  Total: %d\n\n",
		activeFmt(report.Counts.Active), resolvedFmt(report.Counts.Resolved), report.Counts.Total)

	page := dashboard.Paginate(report.Subset(kind), opts.Page, opts.PageSize)
	fmt.Fprintln(a.out, titleFmt("Falhas (%s)", kind))
	printFailures(a.out, page.Data)
	if page.TotalPages > 0 {
		fmt.Fprintf(a.out, "\nPágina %d/%d, %d itens\n", page.Page, page.TotalPages, page.Total)
	}
	return nil
}
