package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-friendly breakdown of an error chain. It never reaches
// API clients.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Retryable  bool     `json:"retryable,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// sqlite reports constraint failures only as text.
const sqliteConstraintPrefix = "constraint failed"

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error(), Code: CodeInternal}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	d.Retryable = MetadataFor(d.Code).Retryable

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if !d.fillFromDriver(err) {
		if idx := strings.Index(d.TopMessage, sqliteConstraintPrefix); idx >= 0 {
			d.PGMessage = strings.TrimSpace(d.TopMessage[idx:])
		}
	}
	return d
}

func (d *ErrorDump) fillFromDriver(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGCode, d.PGConstraint, d.PGTable = pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName
		d.PGColumn, d.PGDetail, d.PGMessage = pgxErr.ColumnName, pgxErr.Detail, pgxErr.Message
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGCode, d.PGConstraint, d.PGTable = string(pqErr.Code), pqErr.Constraint, pqErr.Table
		d.PGColumn, d.PGDetail, d.PGMessage = pqErr.Column, pqErr.Detail, pqErr.Message
		return true
	}
	return false
}
