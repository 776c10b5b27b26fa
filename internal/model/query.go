package model

// TaggedColumn pairs a column name with its value in a result row.
type TaggedColumn struct {
	Column string
	Value  string
}

// ResultRow is one row returned by a tag-driven query, annotated with
// the table it came from. Search fills Columns and Values with the full
// row; tag selection fills Tagged with the values of tagged columns,
// keyed by tag. A tag covering several columns carries all of them.
type ResultRow struct {
	Table   TableReference
	Columns []string
	Values  []string
	Tagged  map[string][]TaggedColumn
}

// DeleteStatement is a single-table delete compiled from a tag.
type DeleteStatement struct {
	Table TableReference
	SQL   string
}

// DeletePlan lists the statements a delete would execute. Building a
// plan has no side effects; the same plan can be produced repeatedly.
type DeletePlan struct {
	Tag        string
	Values     []string
	Statements []DeleteStatement
}

// TableDeleteResult is the per-table outcome of an executed delete.
type TableDeleteResult struct {
	Table       TableReference
	RowsDeleted int64
	Err         error
}

// DeleteResult is the outcome of an executed delete plan. Tables are
// independent: a failure in one does not roll back the others.
type DeleteResult struct {
	Plan   DeletePlan
	Tables []TableDeleteResult
}

// TotalDeleted sums rows deleted across tables.
func (r DeleteResult) TotalDeleted() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.RowsDeleted
	}
	return n
}

// Failed returns the per-table results that ended in an error.
func (r DeleteResult) Failed() []TableDeleteResult {
	var failed []TableDeleteResult
	for _, t := range r.Tables {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}
