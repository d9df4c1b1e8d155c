package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

var (
	titleFmt    = color.New(color.Bold).SprintfFunc()
	activeFmt   = color.New(color.FgRed).SprintFunc()
	resolvedFmt = color.New(color.FgGreen).SprintFunc()
	noticeFmt   = color.New(color.FgYellow).SprintfFunc()
)

func newTable(w io.Writer, columns ...any) table.Table {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	return table.New(columns...).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt).
		WithWriter(w)
}

func status(active bool) string {
	if active {
		return activeFmt("Ativa")
	}
	return resolvedFmt("Resolvida")
}

// printFailures renders annotated failures, one row each.
func printFailures(w io.Writer, list []*dashboard.FailureWithUnitName) {
	if len(list) == 0 {
		fmt.Fprintln(w, "Nenhuma falha encontrada.")
		return
	}
	tbl := newTable(w, "ID", "Data", "Unidade", "Falha", "Status", "Observação")
	for _, f := range list {
		tbl.AddRow(f.ID, f.Date, f.UnitName, f.Description, status(f.Active), f.Note)
	}
	tbl.Print()
}

func notice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, noticeFmt("! "+format, args...))
}

// describe turns client errors into something a person can act on.
func describe(err error) string {
	var ce *apiclient.ConnectivityError
	if errors.As(err, &ce) {
		return fmt.Sprintf("cannot reach the service (%v)", ce.Err)
	}
	var se *apiclient.ServiceError
	if errors.As(err, &se) {
		msg := se.Error()
		for _, f := range se.Fields {
			msg += fmt.Sprintf("\n  - %s: %s", f.Field, f.Rule)
		}
		return msg
	}
	return err.Error()
}
