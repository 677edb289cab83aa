package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyUniqueViolation(t *testing.T) {
	cause := &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (username)=(alice) already exists.",
	}

	err := Classify(fmt.Errorf("insert user: %w", cause))

	var classified *Error
	if !errors.As(err, &classified) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if classified.Kind != KindUnique {
		t.Fatalf("expected unique kind, got %v", classified.Kind)
	}
	want := "Unique constraint violation with username=alice already exists."
	if classified.Error() != want {
		t.Fatalf("message %q, want %q", classified.Error(), want)
	}
}

func TestClassifyForeignKeyStripsTableSuffix(t *testing.T) {
	cause := &pgconn.PgError{
		Code:   "23503",
		Detail: `Key (role_id)=(99) is not present in table "roles".`,
	}

	err := Classify(cause)

	var classified *Error
	if !errors.As(err, &classified) {
		t.Fatalf("expected *Error, got %T", err)
	}
	want := "Foreign key constraint violation with role_id=99 is not present"
	if classified.Error() != want {
		t.Fatalf("message %q, want %q", classified.Error(), want)
	}
}

func TestClassifyNotNullUsesColumnName(t *testing.T) {
	cause := &pgconn.PgError{Code: "23502", ColumnName: "role_description"}

	err := Classify(cause)

	var classified *Error
	if !errors.As(err, &classified) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if classified.Error() != "Not null constraint violation with role_description" {
		t.Fatalf("unexpected message %q", classified.Error())
	}
}

func TestClassifyOtherIntegrityCode(t *testing.T) {
	err := Classify(&pgconn.PgError{Code: "23514"})

	var classified *Error
	if !errors.As(err, &classified) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if classified.Kind != KindIntegrity || classified.Error() != "Integrity error" {
		t.Fatalf("unexpected classification %v %q", classified.Kind, classified.Error())
	}
}

func TestClassifyPassesThroughUnknownErrors(t *testing.T) {
	if err := Classify(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	plain := errors.New("connection reset")
	if err := Classify(plain); err != plain {
		t.Fatalf("expected pass-through, got %v", err)
	}

	var classified *Error
	if errors.As(Classify(&pgconn.PgError{Code: "42703"}), &classified) {
		t.Fatalf("non-integrity codes must not be classified")
	}
}

func TestClassifyPreservesCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@x.com) already exists."}
	err := Classify(cause)

	var pg *pgconn.PgError
	if !errors.As(err, &pg) || pg != cause {
		t.Fatalf("expected original pg error to be reachable via Unwrap")
	}
}
