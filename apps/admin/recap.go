package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/assessment"
	"github.com/yucheyahyasukaca/pengawas-sub001/core/recap"
)

var isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

var priorityColors = map[assessment.Priority]*color.Color{
	assessment.PrioritasUtama:    color.New(color.FgRed, color.Bold),
	assessment.PrioritasMenengah: color.New(color.FgYellow),
	assessment.PrioritasAkhir:    color.New(color.FgGreen),
}

func (cli *commandLine) recap(sup core.Supervisor, filter recap.Filter, asJSON bool) error {
	if cli.recapSvc == nil {
		return errNoDatabase
	}
	rows, err := cli.recapSvc.Generate(context.Background(), sup, filter)
	if err != nil {
		return errors.Wrap(err, "generating recap")
	}

	if asJSON || !isTerminalFunc() {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []recap.Row{}
		}
		return enc.Encode(rows)
	}
	return writeRecapTable(cli.out, rows)
}

// writeRecapTable prints rows as an aligned table. Priority is the last column so its color
// codes do not break the alignment.
func writeRecapTable(out io.Writer, rows []recap.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "Belum ada rencana program.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tPERIODE\tSTATUS\tSEKOLAH\tREFLEKSI\tKAPASITAS\tMETODE\tPRIORITAS")
	for i, r := range rows {
		titles := make([]string, 0, len(r.Methods))
		for _, m := range r.Methods {
			titles = append(titles, m.Title)
		}
		priority := string(r.Priority)
		if c, ok := priorityColors[r.Priority]; ok && r.Strategy != nil {
			priority = c.Sprint(priority)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			r.Periode,
			r.Status,
			dashIfEmpty(strings.Join(r.Schools, ", ")),
			r.ReflectionLevel.Label(),
			r.CapacityLevel.Label(),
			dashIfEmpty(strings.Join(titles, ", ")),
			priority,
		)
	}
	return w.Flush()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
