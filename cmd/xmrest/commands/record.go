package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fivetwenty-io/xmrest/internal/constants"
)

const idField = "id"

// Record is a schemaless backend item identified by its "id" field.
type Record map[string]interface{}

// GetID returns the "id" field formatted as a string, or "" when absent.
func (r Record) GetID() string {
	return formatValue(r[idField])
}

// SetID stores id in the "id" field.
func (r Record) SetID(id string) {
	r[idField] = id
}

// Columns returns the keys of records with "id" first and the rest sorted.
func Columns(records []Record) []string {
	seen := map[string]bool{}
	hasID := false

	for _, record := range records {
		for key := range record {
			if key == idField {
				hasID = true

				continue
			}

			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen)+1)
	for key := range seen {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	if hasID {
		columns = append([]string{idField}, columns...)
	}

	return columns
}

// formatValue renders a decoded JSON value for display and comparison.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// parseRecords accepts a JSON object or an array of objects. null, as the
// payload or as an array element, is rejected.
func parseRecords(data []byte) ([]Record, bool, error) {
	var single Record

	err := json.Unmarshal(data, &single)
	if err == nil {
		if single == nil {
			return nil, false, fmt.Errorf("%w: got null", constants.ErrInvalidPayload)
		}

		return []Record{single}, false, nil
	}

	var many []Record

	err = json.Unmarshal(data, &many)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", constants.ErrInvalidPayload, err)
	}

	for i, record := range many {
		if record == nil {
			return nil, false, fmt.Errorf("%w: element %d is null", constants.ErrInvalidPayload, i)
		}
	}

	return many, true, nil
}
