package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/xmrest/internal/constants"
)

// renderer writes command output in the configured format.
type renderer struct {
	format string
	out    io.Writer
}

func (r renderer) encode(data interface{}) (bool, error) {
	switch r.format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(r.out)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(data)
	default:
		return false, nil
	}
}

func (r renderer) records(records []Record) error {
	if handled, err := r.encode(records); handled {
		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(r.out, "No items found")

		return nil
	}

	columns := Columns(records)

	table := tablewriter.NewWriter(r.out)
	table.Header(toAny(columns)...)

	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatValue(record[column])
		}

		_ = table.Append(row)
	}

	return renderTable(table)
}

func (r renderer) record(record Record) error {
	if handled, err := r.encode(record); handled {
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header("Field", "Value")

	for _, column := range Columns([]Record{record}) {
		_ = table.Append([]string{column, formatValue(record[column])})
	}

	return renderTable(table)
}

// properties renders label/value pairs; data is what json and yaml encode.
func (r renderer) properties(data interface{}, rows [][2]string) error {
	if handled, err := r.encode(data); handled {
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append([]string{row[0], row[1]})
	}

	return renderTable(table)
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
