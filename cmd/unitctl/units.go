package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

// UnitsCommand groups the unidades subcommands.
type UnitsCommand struct{}

func (c *UnitsCommand) GetCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unidades",
		Aliases: []string{"units"},
		Short:   "List and manage units",
	}
	cmd.AddCommand(
		c.listCommand(),
		c.addCommand(),
		c.editCommand(),
		c.removeCommand(),
		c.historyCommand(),
	)
	return cmd
}

func (c *UnitsCommand) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "listar",
		Short: "List units ordered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			list, err := a.client.ListUnits(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "Nenhuma unidade cadastrada.")
				return nil
			}
			tbl := newTable(a.out, "ID", "Nome", "Grupo", "Técnico", "ID Unidade")
			for _, u := range list {
				tbl.AddRow(u.ID, u.Name, u.Group, u.Technician, u.ExternalID)
			}
			tbl.Print()
			return nil
		},
	}
}

func unitFlags(cmd *cobra.Command, in *apiclient.UnitInput) {
	cmd.Flags().StringVar(&in.Name, "nome", "", "unit name")
	cmd.Flags().StringVar(&in.Group, "grupo", "", "unit group")
	cmd.Flags().StringVar(&in.Technician, "tecnico", "", "technician in charge")
	cmd.Flags().StringVar(&in.ExternalID, "id-unidade", "", "external unit identifier, unique")
	cmd.Flags().StringVar(&in.Notes, "observacoes", "", "free notes")
}

func (c *UnitsCommand) addCommand() *cobra.Command {
	var in apiclient.UnitInput
	cmd := &cobra.Command{
		Use:   "adicionar",
		Short: "Register a new unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			u, err := a.client.CreateUnit(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "unidade %d criada: %s (%s)\n", u.ID, u.Name, u.ExternalID)
			return nil
		},
	}
	unitFlags(cmd, &in)
	for _, name := range []string{"nome", "grupo", "id-unidade"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *UnitsCommand) editCommand() *cobra.Command {
	var in apiclient.UnitInput
	cmd := &cobra.Command{
		Use:   "editar <id>",
		Short: "Change a unit; flags left out keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := getApp(cmd)
			merged, err := mergeUnit(cmd.Context(), a.client, id, cmd, in)
			if err != nil {
				return err
			}
			u, err := a.client.UpdateUnit(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "unidade %d atualizada: %s\n", u.ID, u.Name)
			return nil
		},
	}
	unitFlags(cmd, &in)
	return cmd
}

// mergeUnit overlays the flags that were set on the stored unit.
func mergeUnit(ctx context.Context, client *apiclient.Client, id int64, cmd *cobra.Command, in apiclient.UnitInput) (apiclient.UnitInput, error) {
	cur, err := client.GetUnit(ctx, id)
	if err != nil {
		return apiclient.UnitInput{}, err
	}
	out := apiclient.UnitInput{
		Name:       cur.Name,
		Group:      cur.Group,
		Technician: cur.Technician,
		ExternalID: cur.ExternalID,
		Notes:      cur.Notes,
	}
	set := cmd.Flags().Changed
	if set("nome") {
		out.Name = in.Name
	}
	if set("grupo") {
		out.Group = in.Group
	}
	if set("tecnico") {
		out.Technician = in.Technician
	}
	if set("id-unidade") {
		out.ExternalID = in.ExternalID
	}
	if set("observacoes") {
		out.Notes = in.Notes
	}
	return out, nil
}

func (c *UnitsCommand) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remover <id>",
		Short: "Delete a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := getApp(cmd)
			res, err := a.client.DeleteUnit(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "unidade %d removida (%s, %d falhas removidas)\n", res.UnitID, res.Policy, res.FailuresRemoved)
			return nil
		},
	}
}

func (c *UnitsCommand) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "historico <id>",
		Short: "Every failure of one unit, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a := getApp(cmd)
			list, err := a.client.UnitHistory(cmd.Context(), id)
			if err != nil {
				return err
			}
			printFailures(a.out, list)
			return nil
		},
	}
}
