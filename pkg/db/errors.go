package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraintName is set, only violations of that constraint (or index) match.
// Postgres errors are inspected structurally; sqlite is matched by message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(msg, constraintName)
}
