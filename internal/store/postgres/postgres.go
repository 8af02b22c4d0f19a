// Package postgres implements the record stores and the feature-flag store
// on top of PostgreSQL. Each call runs as its own implicitly committed
// statement (or a short explicit transaction for read-modify-write updates);
// callers never see a multi-statement transaction.
package postgres

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func int64IDs(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}

	return out
}
