package vaults

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/dbx"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	db, err := store.Open(context.Background(), dbx.SQLite, ":memory:", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), db
}

func addUser(t *testing.T, db *store.Store, name string) int64 {
	t.Helper()
	id, err := db.Insert(context.Background(),
		`INSERT INTO credentials (username, password, email, register_date) VALUES (?, ?, ?, ?)`,
		name, "hash", name+"@example.com", time.Now().UTC())
	require.NoError(t, err)
	return id
}

func page(userID int64, index int, platform string) *Vault {
	return &Vault{
		UserID:       userID,
		PlatformName: platform,
		Website:      platform + ".com",
		Username:     "user_" + platform,
		Email:        "user@" + platform + ".com",
		Password:     []byte("cipher-" + platform),
		Index:        index,
	}
}

func TestUpsert_InsertThenGet(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")

	v := page(uid, 0, "github")
	require.NoError(t, s.Upsert(ctx, v))
	assert.Equal(t, "https://github.com", v.Website)

	got, err := s.Get(ctx, uid, 0)
	require.NoError(t, err)
	assert.Equal(t, *v, *got)
}

func TestUpsert_UpdatesInPlace(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")

	require.NoError(t, s.Upsert(ctx, page(uid, 0, "github")))

	updated := page(uid, 0, "gitlab")
	require.NoError(t, s.Upsert(ctx, updated))

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, uid, 0)
	require.NoError(t, err)
	assert.Equal(t, "gitlab", got.PlatformName)
	assert.Equal(t, []byte("cipher-gitlab"), got.Password)
}

func TestUpsert_ValidationOrder(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")

	tests := []struct {
		name   string
		mutate func(v *Vault)
		want   error
	}{
		{"bad url wins over bad email", func(v *Vault) { v.Website = "not a url"; v.Email = "bad" }, common.ErrInvalidURL},
		{"bad email wins over empty field", func(v *Vault) { v.Email = "bad"; v.PlatformName = "" }, common.ErrInvalidEmail},
		{"empty platform", func(v *Vault) { v.PlatformName = "" }, common.ErrVault},
		{"empty username", func(v *Vault) { v.Username = "" }, common.ErrVault},
		{"empty password", func(v *Vault) { v.Password = nil }, common.ErrVault},
		{"empty website", func(v *Vault) { v.Website = "" }, common.ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := page(uid, 0, "github")
			tt.mutate(v)
			require.ErrorIs(t, s.Upsert(ctx, v), tt.want)
		})
	}

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsert_RejectsIndexGap(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")

	require.ErrorIs(t, s.Upsert(ctx, page(uid, 5, "github")), common.ErrVault)

	require.NoError(t, s.Upsert(ctx, page(uid, 0, "github")))
	require.ErrorIs(t, s.Upsert(ctx, page(uid, 2, "gitlab")), common.ErrVault)
	require.NoError(t, s.Upsert(ctx, page(uid, 1, "gitlab")))

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGet_NotFound(t *testing.T) {
	s, db := setup(t)
	uid := addUser(t, db, "tester")

	_, err := s.Get(context.Background(), uid, 3)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_CompactsIndexes(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")
	other := addUser(t, db, "another")

	for i, p := range []string{"zero", "one", "two", "three"} {
		require.NoError(t, s.Upsert(ctx, page(uid, i, p)))
	}
	for i, p := range []string{"a", "b", "c"} {
		require.NoError(t, s.Upsert(ctx, page(other, i, p)))
	}

	require.NoError(t, s.Delete(ctx, uid, 1))

	list, err := s.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, want := range []string{"zero", "two", "three"} {
		assert.Equal(t, i, list[i].Index)
		assert.Equal(t, want, list[i].PlatformName)
	}

	// other users keep their numbering
	list, err = s.List(ctx, other)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, i, list[i].Index)
		assert.Equal(t, want, list[i].PlatformName)
	}
}

func TestDelete_Missing(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")
	require.NoError(t, s.Upsert(ctx, page(uid, 0, "zero")))

	require.ErrorIs(t, s.Delete(ctx, uid, 5), common.ErrorNotFound)

	n, err := s.Count(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestList_Empty(t *testing.T) {
	s, db := setup(t)
	uid := addUser(t, db, "tester")

	list, err := s.List(context.Background(), uid)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSetPassword(t *testing.T) {
	s, db := setup(t)
	ctx := context.Background()
	uid := addUser(t, db, "tester")
	require.NoError(t, s.Upsert(ctx, page(uid, 0, "zero")))

	require.NoError(t, s.SetPassword(ctx, uid, 0, []byte("rotated")))

	got, err := s.Get(ctx, uid, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("rotated"), got.Password)
}

func TestDelete_ShiftFailureRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	s := New(store.New(sqlDB, dbx.SQLite))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM vaults`).WithArgs(int64(1), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vaults`).WithArgs(int64(1), 1).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err = s.Delete(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to shift vault indexes")
	require.NoError(t, mock.ExpectationsWereMet())
}
