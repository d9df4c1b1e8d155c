package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

// FailuresCommand groups the falhas subcommands.
type FailuresCommand struct{}

func (c *FailuresCommand) GetCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "falhas",
		Aliases: []string{"failures"},
		Short:   "List and manage failures",
	}
	cmd.AddCommand(
		c.listCommand(),
		c.addCommand(),
		c.toggleCommand("resolver", "Mark a failure as resolved", false),
		c.toggleCommand("reabrir", "Reopen a resolved failure", true),
	)
	return cmd
}

func (c *FailuresCommand) listCommand() *cobra.Command {
	var (
		showClosed bool
		unit       int64
	)
	cmd := &cobra.Command{
		Use:   "listar",
		Short: "List failures with their unit names, active ones by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			list, err := a.client.ListDetailed(cmd.Context(), showClosed)
			if err != nil {
				return err
			}
			if unit > 0 {
				list = filterUnit(list, unit)
			}
			printFailures(a.out, list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showClosed, "encerradas", false, "include resolved failures")
	cmd.Flags().Int64Var(&unit, "unidade", 0, "only failures of this unit id")
	return cmd
}

func filterUnit(list []*dashboard.FailureWithUnitName, unit int64) []*dashboard.FailureWithUnitName {
	out := list[:0:0]
	for _, f := range list {
		if f.UnitID == unit {
			out = append(out, f)
		}
	}
	return out
}

func (c *FailuresCommand) addCommand() *cobra.Command {
	var (
		in       apiclient.FailureInput
		date     string
		resolved bool
	)
	cmd := &cobra.Command{
		Use:   "adicionar",
		Short: "Register a failure of a unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			in.Date = failures.DateOf(a.now())
			if date != "" {
				d, err := failures.ParseDate(date)
				if err != nil {
					return err
				}
				in.Date = d
			}
			if resolved {
				active := false
				in.Active = &active
			}
			f, err := a.client.CreateFailure(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "falha %d registrada em %s (%s)\n", f.ID, f.Date, f.Status())
			return nil
		},
	}
	cmd.Flags().Int64Var(&in.UnitID, "unidade", 0, "unit id")
	cmd.Flags().StringVar(&in.Description, "descricao", "", "what happened")
	cmd.Flags().StringVar(&date, "data", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&in.Note, "observacao", "", "free note")
	cmd.Flags().BoolVar(&resolved, "resolvida", false, "register as already resolved")
	_ = cmd.MarkFlagRequired("unidade")
	_ = cmd.MarkFlagRequired("descricao")
	return cmd
}

func (c *FailuresCommand) toggleCommand(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := getApp(cmd)
			f, err := a.client.SetActive(cmd.Context(), id, active)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "falha %d: %s\n", f.ID, status(f.Active))
			return nil
		},
	}
}
