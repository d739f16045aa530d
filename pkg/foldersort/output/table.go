package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter renders moves as a bordered table.
type TableFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TableFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"FROM", "TO", "SIZE", "RENAMED"})

	for _, m := range r.Moves {
		renamed := ""
		if m.Renamed {
			renamed = "yes"
		}
		tw.AppendRow(table.Row{m.Name, m.RelDest, m.SizeHuman, renamed})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d moved", r.Stats.Moved), "", formatSize(r.Stats.TotalSize), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	w.WriteString(tw.Render())
	w.WriteByte('\n')
	return nil
}

func init() {
	Register("table", func() Formatter {
		return &TableFormatter{}
	})
}

var _ Formatter = (*TableFormatter)(nil)

// TSVFormatter writes tab-separated values with a header row.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString("SOURCE\tDESTINATION\tSIZE\tRENAMED\n")
	for _, m := range r.Moves {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", m.Source, m.Destination, m.Size, m.Renamed)
	}
	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter writes RFC 4180 comma-separated values.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"source", "destination", "folder", "size", "renamed"}); err != nil {
		return err
	}
	for _, m := range r.Moves {
		row := []string{m.Source, m.Destination, m.Folder, strconv.FormatInt(m.Size, 10), strconv.FormatBool(m.Renamed)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

var _ Formatter = (*CSVFormatter)(nil)
