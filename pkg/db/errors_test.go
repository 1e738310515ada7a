package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}
	pqErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx any", err: fmt.Errorf("insert: %w", pgxErr), want: true},
		{name: "pgx matching constraint", err: pgxErr, constraint: "orders_order_number_key", want: true},
		{name: "pgx other constraint", err: pgxErr, constraint: "users_email_key", want: false},
		{name: "pgx other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq matching", err: pqErr, constraint: "users_email_key", want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "sqlite with index name", err: errors.New("UNIQUE constraint failed: users.email"), constraint: "users.email", want: true},
		{name: "unrelated", err: errors.New("connection reset"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsUniqueViolation(tc.err, tc.constraint))
		})
	}
}
