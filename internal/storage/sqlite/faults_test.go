package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/storage"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &SQLiteStore{db: db}, mock
}

func TestGetItem_DriverFaultIsNotNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .* FROM net_worth_items WHERE id = \\? AND group_id = \\?").
		WithArgs(int64(7), "g1").
		WillReturnError(errors.New("disk I/O error"))

	_, err := store.GetItem(context.Background(), "g1", 7)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Errorf("driver fault reported as not found: %v", err)
	}
	if !strings.Contains(err.Error(), "disk I/O error") {
		t.Errorf("expected driver error to be wrapped, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetItem_CorruptValue(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "group_id", "name", "value", "item_type", "asset_category", "description", "created_at", "updated_at"}).
		AddRow(int64(1), "g1", "Cash", "not-a-number", "ASSET", "SAVINGS", nil, int64(1), int64(1))
	mock.ExpectQuery("SELECT .* FROM net_worth_items").WillReturnRows(rows)

	_, err := store.GetItem(context.Background(), "g1", 1)
	if err == nil || !strings.Contains(err.Error(), "corrupt value") {
		t.Errorf("expected corrupt value error, got %v", err)
	}
}

func TestListItems_CountFault(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM net_worth_items").
		WithArgs("g1", "ASSET").
		WillReturnError(errors.New("database is locked"))

	_, _, err := store.ListItems(context.Background(), "g1", models.ItemTypeAsset, 20, 0)
	if err == nil || !strings.Contains(err.Error(), "failed to count items") {
		t.Errorf("expected count failure, got %v", err)
	}
}

func TestRegisterWithInvite_RollsBackOnInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT group_id FROM invite_links").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"group_id"}).AddRow("g1"))
	mock.ExpectExec("UPDATE invite_links SET is_used = 1").
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("UNIQUE constraint failed: users.username"))
	mock.ExpectRollback()

	err := store.RegisterWithInvite(context.Background(), models.NewUser("taken", "", "hash"), "tok")
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
