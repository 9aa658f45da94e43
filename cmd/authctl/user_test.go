package main

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/radiolab/radiometer-auth/internal/server/hashing"
	"github.com/radiolab/radiometer-auth/internal/server/models"
)

func TestProvisionUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg(), models.RoleResearcher).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	user, err := provisionUser(context.Background(), db, "alice", "pw123", models.RoleResearcher)
	if err != nil {
		t.Fatalf("provisionUser error: %v", err)
	}

	if user.ID != "u-1" || user.Login != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.Salt) != saltBytes*2 {
		t.Fatalf("salt length = %d, want %d", len(user.Salt), saltBytes*2)
	}
	if _, err := hex.DecodeString(user.Salt); err != nil {
		t.Fatalf("salt is not hex: %v", err)
	}
	if !hashing.Verify("pw123", user.Salt, user.PasswordDigest) {
		t.Fatalf("stored digest does not verify against the password")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestProvisionUser_SaltsAreUnique(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	rows := func(id string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id"}).AddRow(id)
	}
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnRows(rows("u-1"))
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnRows(rows("u-2"))

	a, err := provisionUser(context.Background(), db, "a", "same-password", models.RoleResearcher)
	if err != nil {
		t.Fatalf("provisionUser error: %v", err)
	}
	b, err := provisionUser(context.Background(), db, "b", "same-password", models.RoleResearcher)
	if err != nil {
		t.Fatalf("provisionUser error: %v", err)
	}

	if a.Salt == b.Salt {
		t.Fatalf("two accounts share a salt: %q", a.Salt)
	}
	if a.PasswordDigest == b.PasswordDigest {
		t.Fatalf("same password produced identical digests across salts")
	}
}
