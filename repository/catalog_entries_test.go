package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordingDB captures the last query and its arguments and answers
// single-row count scans.
type recordingDB struct {
	sql   string
	args  []interface{}
	count int64
}

func (d *recordingDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (d *recordingDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	d.sql = sql
	d.args = args
	return nil, pgx.ErrNoRows
}

func (d *recordingDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	d.sql = sql
	d.args = args
	return countRow{n: d.count}
}

type countRow struct {
	n int64
}

func (r countRow) Scan(dest ...interface{}) error {
	*(dest[0].(*int64)) = r.n
	return nil
}

func TestCountActiveCatalogEntriesParams(t *testing.T) {
	tests := []struct {
		name     string
		arg      CountActiveCatalogEntriesParams
		wantArgs []interface{}
	}{
		{
			name:     "jurisdiction only",
			arg:      CountActiveCatalogEntriesParams{Jurisdiction: "tx"},
			wantArgs: []interface{}{"tx", ""},
		},
		{
			name:     "jurisdiction and category",
			arg:      CountActiveCatalogEntriesParams{Jurisdiction: "tx", Category: "dairy"},
			wantArgs: []interface{}{"tx", "dairy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recordingDB{count: 42}
			q := New(db)

			count, err := q.CountActiveCatalogEntries(context.Background(), tt.arg)
			if err != nil {
				t.Fatalf("CountActiveCatalogEntries: %v", err)
			}
			if count != 42 {
				t.Errorf("count = %d, want 42", count)
			}

			if len(db.args) != len(tt.wantArgs) {
				t.Fatalf("query args = %v, want %v", db.args, tt.wantArgs)
			}
			for i, want := range tt.wantArgs {
				if db.args[i] != want {
					t.Errorf("arg[%d] = %v, want %v", i, db.args[i], want)
				}
			}
		})
	}
}
