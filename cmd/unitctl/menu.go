package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

// MenuCommand prints the navigation tree served by the API.
type MenuCommand struct{}

func (c *MenuCommand) GetCobraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the navigation tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd)
			items, err := a.client.Menu(cmd.Context())
			if err != nil {
				return err
			}
			printMenu(a.out, items, 0)
			return nil
		},
	}
}

func printMenu(w io.Writer, items []apiclient.MenuItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if len(it.Items) > 0 || it.Kind == "group" {
			fmt.Fprintf(w, "%s%s\n", indent, titleFmt("%s", it.Title))
			printMenu(w, it.Items, depth+1)
			continue
		}
		fmt.Fprintf(w, "%s%-28s %s\n", indent, it.Title, it.Path)
	}
}
