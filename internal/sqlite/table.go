package sqlite

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/weave/pkg/types"
)

// Helpers shared by the table accessors. Callers hold b.mu.

func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.ErrCatalogDetached
	}
	return nil
}

func (b *Backend) jsonlPath(file string) string {
	return filepath.Join(b.config.DataDir, file)
}

// whereClause builds a WHERE clause from filter. columns maps the accepted
// filter keys to column names; values must be strings, bools or ints.
// Keys are applied in sorted order so queries are deterministic.
func whereClause(filter map[string]any, columns map[string]string) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []string
	var args []any
	for _, k := range keys {
		col, ok := columns[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", types.ErrInvalidFilter, k)
		}
		switch v := filter[k].(type) {
		case string, int:
			args = append(args, v)
		case bool:
			args = append(args, boolInt(v))
		default:
			return "", nil, fmt.Errorf("%w: %s has type %T", types.ErrInvalidFilter, k, v)
		}
		conditions = append(conditions, col+" = ?")
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return t, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("decoding list column: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
