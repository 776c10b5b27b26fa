package model

// RowSample holds sampled values from a table's string-like columns.
// Cells are carried as strings; NULLs are represented as empty strings.
type RowSample struct {
	Table     TableReference
	Columns   []ColumnInfo
	Rows      [][]string
	Truncated bool // set when the row cap may have cut the read short
}

// ColumnValues returns the sampled values of the column at index i.
func (s RowSample) ColumnValues(i int) []string {
	values := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values
}

// ResultSet holds rows returned by an executed query statement.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}
