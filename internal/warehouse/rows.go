package warehouse

import (
	"database/sql"
	"fmt"

	"github.com/lakesift/lakesift/internal/model"
)

// scanStrings drains rows into string cells. NULLs become empty
// strings; non-text values arrive through the driver's conversion.
func scanStrings(rows *sql.Rows, width int) ([][]string, error) {
	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, width)
		ptrs := make([]any, width)
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, width)
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

// collectResultSet drains a generic query result.
func collectResultSet(rows *sql.Rows) (*model.ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	data, err := scanStrings(rows, len(columns))
	if err != nil {
		return nil, err
	}
	return &model.ResultSet{Columns: columns, Rows: data}, nil
}
