package operations

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"covercli/internal/config"
	"covercli/internal/dataprocessing"
)

// RenderResult prints what a step produced: its table or document when it
// has one, then the output path
func RenderResult(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	if res.Table != nil {
		if err := RenderTable(w, *res.Table); err != nil {
			return err
		}
	}
	if len(res.Document) > 0 {
		if _, err := fmt.Fprintln(w, string(res.Document)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: saved %d rows to %s\n", res.StepID, res.Rows, res.OutputPath)
	return err
}

// RenderTable prints df with a leading row index, like a notebook would
func RenderTable(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	if df.Nrow() == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := newTableWriter(w)

	names := df.Names()
	header := make(table.Row, 0, len(names)+1)
	header = append(header, "")
	for _, name := range names {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for r := 0; r < df.Nrow(); r++ {
		row := make(table.Row, 0, len(names)+1)
		row = append(row, r)
		for c := range names {
			row = append(row, formatValue(df.Elem(r, c)))
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", df.Nrow(), df.Ncol())
	return err
}

// RenderSteps prints the registered steps with their default paths
func RenderSteps(w io.Writer, registry *Registry, paths *config.Paths) {
	t := newTableWriter(w)
	t.AppendHeader(table.Row{"Operation", "Description", "Inputs", "Output"})

	for _, step := range registry.List() {
		p := step.DefaultParams(paths)
		inputs := p.Input
		for _, extra := range []string{p.Lookup, p.Right} {
			if extra != "" {
				inputs += "\n" + extra
			}
		}
		t.AppendRow(table.Row{step.ID(), step.Name(), inputs, p.Output})
	}
	t.Render()
}

// newTableWriter keeps header text as given; column names are data
func newTableWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func formatValue(e series.Element) string {
	if dataprocessing.IsMissing(e) {
		return "NaN"
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
