package reply

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FormatCell renders a single cell value for display.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatRow renders every cell of a row.
func FormatRow(row []any) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = FormatCell(cell)
	}
	return out
}
