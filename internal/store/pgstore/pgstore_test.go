package pgstore

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/orin-ai/agentdash/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNotFoundMapsNoRows(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"NoRows", pgx.ErrNoRows, store.ErrNotFound},
		{"WrappedNoRows", fmt.Errorf("scan: %w", pgx.ErrNoRows), store.ErrNotFound},
		{"Other", errors.New("boom"), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := notFound(tc.in, "agent 1")
			if tc.want == nil {
				if errors.Is(err, store.ErrNotFound) {
					t.Fatalf("unexpected ErrNotFound for %v", tc.in)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatal("expected unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation reported as unique")
	}
	if isUniqueViolation(nil) {
		t.Fatal("nil reported as unique violation")
	}
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil || len(ups) == 0 {
		t.Fatalf("no up migrations: %v", err)
	}
	downs, _ := fs.Glob(migrations, "migrations/*.down.sql")
	if len(ups) != len(downs) {
		t.Fatalf("%d up migrations but %d down", len(ups), len(downs))
	}
}
