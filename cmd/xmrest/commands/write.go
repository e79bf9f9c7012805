package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

func (a *app) newSaveCommand() *cobra.Command {
	var (
		file string
		data string
	)

	cmd := &cobra.Command{
		Use:   "save RESOURCE",
		Short: "Create or replace items",
		Long: `Save a JSON object, or an array of objects, to RESOURCE.

Items without an id, or whose id is unknown to the backend, are created with
POST. Items the backend already has are replaced with PUT. Arrays are saved
concurrently.`,
		Example: `  xmrest save widgets --data '{"name":"bolt"}'
  xmrest save widgets --file widgets.json
  cat widgets.json | xmrest save widgets --file -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), file, data)
			if err != nil {
				return err
			}

			records, many, err := parseRecords(payload)
			if err != nil {
				return err
			}

			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			if many {
				results := svc.SaveAll(cmd.Context(), records)

				return a.renderBatch(cmd.OutOrStdout(), constants.ErrSaveFailed, results)
			}

			_, err = svc.Upsert(cmd.Context(), records[0])
			if err != nil {
				return fmt.Errorf("%w: %w", constants.ErrSaveFailed, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s\n", args[0], records[0].GetID())

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read the payload from a file, - for stdin")
	cmd.Flags().StringVarP(&data, "data", "d", "", "inline JSON payload")

	return cmd
}

func (a *app) newDeleteCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:     "delete RESOURCE [ID...]",
		Aliases: []string{"rm"},
		Short:   "Delete items",
		Long: `Delete items of RESOURCE by id, or the first item matching --where clauses.

Several ids are deleted concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, ids := args[0], args[1:]

			predicate, err := parseWhere(where)
			if err != nil {
				return err
			}

			if predicate == nil && len(ids) == 0 {
				return constants.ErrIDRequired
			}

			svc, err := a.service(resource)
			if err != nil {
				return err
			}

			switch {
			case predicate != nil:
				_, err = svc.RemoveWhere(cmd.Context(), predicate)
			case len(ids) == 1:
				_, err = svc.Remove(cmd.Context(), ids[0])
			default:
				return a.renderBatch(cmd.OutOrStdout(), constants.ErrDeleteFailed, svc.DeleteAll(cmd.Context(), ids))
			}

			if err != nil {
				return fmt.Errorf("%w: %w", constants.ErrDeleteFailed, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted from %s\n", resource)

			return nil
		},
	}

	addWhereFlag(cmd, &where)

	return cmd
}

func readPayload(stdin io.Reader, file, data string) ([]byte, error) {
	switch {
	case data != "":
		return []byte(data), nil
	case file == "-":
		payload, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return payload, nil
	case file != "":
		payload, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		return payload, nil
	default:
		return nil, constants.ErrNoPayload
	}
}

// renderBatch prints per-item outcomes and fails when any item failed.
func (a *app) renderBatch(out io.Writer, failure error, results []xmrest.BatchResult[string]) error {
	type batchRow struct {
		Index    int    `json:"index"           yaml:"index"`
		ID       string `json:"id"              yaml:"id"`
		Success  bool   `json:"success"         yaml:"success"`
		Error    string `json:"error,omitempty" yaml:"error,omitempty"`
		Duration string `json:"duration"        yaml:"duration"`
	}

	rows := make([]Record, 0, len(results))
	data := make([]batchRow, 0, len(results))
	failed := 0

	for _, result := range results {
		row := batchRow{
			Index:    result.Index,
			ID:       result.ID,
			Success:  result.Success,
			Duration: result.Duration.String(),
		}

		if result.Error != nil {
			row.Error = result.Error.Error()
			failed++
		}

		data = append(data, row)
		rows = append(rows, Record{
			"index":    strconv.Itoa(row.Index),
			idField:    row.ID,
			"success":  strconv.FormatBool(row.Success),
			"error":    row.Error,
			"duration": row.Duration,
		})
	}

	r := a.renderer(out)

	var err error
	if handled, encodeErr := r.encode(data); handled {
		err = encodeErr
	} else {
		err = r.records(rows)
	}

	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d items", failure, failed, len(results))
	}

	return nil
}
