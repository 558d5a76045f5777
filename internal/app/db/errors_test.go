package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert member: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	if !IsUniqueViolation(unique) || IsForeignKeyViolation(unique) {
		t.Error("Expected wrapped 23505 to be a unique violation only")
	}
	if !IsForeignKeyViolation(fk) || IsUniqueViolation(fk) {
		t.Error("Expected 23503 to be a foreign key violation only")
	}
	if IsUniqueViolation(errors.New("plain")) || IsForeignKeyViolation(nil) {
		t.Error("Non-postgres errors must not match")
	}

	if !IsNotFound(fmt.Errorf("get user: %w", pgx.ErrNoRows)) || IsNotFound(fk) {
		t.Error("IsNotFound misclassified")
	}
}
