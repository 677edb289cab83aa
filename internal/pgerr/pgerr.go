// Package pgerr converts PostgreSQL constraint failures into a closed,
// typed taxonomy. The message wording is part of the external contract and
// must not be rephrased.
package pgerr

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind discriminates classified persistence failures.
type Kind int

const (
	// KindNotNull is a not-null constraint violation (SQLSTATE 23502).
	KindNotNull Kind = iota
	// KindForeignKey is a foreign-key constraint violation (SQLSTATE 23503).
	KindForeignKey
	// KindUnique is a unique constraint violation (SQLSTATE 23505).
	KindUnique
	// KindIntegrity covers any other integrity-class failure.
	KindIntegrity
)

const (
	msgNotNull    = "Not null constraint violation with "
	msgForeignKey = "Foreign key constraint violation with "
	msgUnique     = "Unique constraint violation with "
	msgIntegrity  = "Integrity error"
)

// Error is a classified constraint violation.
type Error struct {
	Kind  Kind
	Field string
	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotNull:
		return msgNotNull + e.Field
	case KindForeignKey:
		return msgForeignKey + e.Field
	case KindUnique:
		return msgUnique + e.Field
	default:
		return msgIntegrity
	}
}

func (e *Error) Unwrap() error { return e.cause }

const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"

	integrityClass = "23"
)

var inTableTail = regexp.MustCompile(`in table.*`)

// Classify inspects err for a PostgreSQL integrity violation and wraps it in
// an *Error. Every other failure is returned untouched so callers surface it
// as an opaque internal error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return err
	}

	switch pg.Code {
	case codeNotNull:
		return &Error{Kind: KindNotNull, Field: pg.ColumnName, cause: err}
	case codeForeignKey:
		return &Error{Kind: KindForeignKey, Field: fieldFromDetail(pg.Detail), cause: err}
	case codeUnique:
		return &Error{Kind: KindUnique, Field: fieldFromDetail(pg.Detail), cause: err}
	}
	if strings.HasPrefix(pg.Code, integrityClass) {
		return &Error{Kind: KindIntegrity, cause: err}
	}
	return err
}

// fieldFromDetail reduces a DETAIL diagnostic such as
//
//	Key (username)=(alice) already exists.
//
// to "username=alice already exists." for inclusion in the response message.
func fieldFromDetail(detail string) string {
	s := strings.NewReplacer("Key", "", "(", "", ")", "").Replace(detail)
	s = inTableTail.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
