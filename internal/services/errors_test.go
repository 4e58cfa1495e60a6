package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	if !isUniqueViolation(unique) {
		t.Error("expected 23505 to classify as unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert failed: %w", unique)) {
		t.Error("expected wrapped 23505 to classify as unique violation")
	}

	deadlock := &pgconn.PgError{Code: "40P01"}
	if isUniqueViolation(deadlock) {
		t.Error("expected 40P01 not to classify as unique violation")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Error("expected plain error not to classify as unique violation")
	}
	if isUniqueViolation(nil) {
		t.Error("expected nil not to classify as unique violation")
	}
}
