package store_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"retrosync/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The advisory lock only exists on postgres; sqlite-backed tests exercise the
// no-op branch, so the SQL shape is pinned here with a mocked connection.
func TestAcquireKeyLockPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}

	userID := uuid.New()
	saveKey := "saves/gb/pokemon.srm"

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))")).
		WithArgs(fmt.Sprintf("%s:%s", userID, saveKey)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.New(db).Saves().AcquireKeyLock(context.Background(), userID, saveKey); err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAcquireKeyLockSqliteNoop(t *testing.T) {
	st := setupStore(t)
	if err := st.Saves().AcquireKeyLock(context.Background(), uuid.New(), "any"); err != nil {
		t.Fatalf("expected no-op on sqlite, got %v", err)
	}
}
