package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRevokeByHashClaimsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	r := NewTokenRepo(db)
	revoke := q("UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()")

	mock.ExpectExec(revoke).WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revoke).WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := r.RevokeByHash(context.Background(), "abc"); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := r.RevokeByHash(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second revoke err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
