package db

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"user-mgmt-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(username, email, tel string) UserRecord {
	return UserRecord{
		User:         models.User{Username: username, Name: username, Email: email, Tel: tel, Password: "plain"},
		PasswordHash: "hash",
	}
}

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateUser(ctx, newRecord("ann", "ann@example.com", "13800000000"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, models.StateEnabled, created.State)
	assert.Equal(t, models.AdminNo, created.IsAdmin)
	assert.Equal(t, DefaultRoleID, created.RoleID)
	assert.NotNil(t, created.CreateTime)
	assert.Empty(t, created.Password)
	assert.Equal(t, "hash", created.PasswordHash)

	for name, lookup := range map[string]func() (*UserRecord, error){
		"id":       func() (*UserRecord, error) { return store.GetUserByID(ctx, 1) },
		"username": func() (*UserRecord, error) { return store.GetUserByUsername(ctx, "ann") },
		"email":    func() (*UserRecord, error) { return store.GetUserByEmail(ctx, "ann@example.com") },
		"tel":      func() (*UserRecord, error) { return store.GetUserByTel(ctx, "13800000000") },
	} {
		rec, err := lookup()
		require.NoError(t, err, name)
		assert.Equal(t, "ann", rec.Username, name)
	}

	_, err = store.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.CreateUser(ctx, newRecord("ann", "ann@example.com", ""))
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, newRecord("ann", "other@example.com", ""))
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = store.CreateUser(ctx, newRecord("bob", "ann@example.com", ""))
	assert.ErrorIs(t, err, ErrDuplicate)

	// empty email/tel never collide
	_, err = store.CreateUser(ctx, newRecord("bob", "", ""))
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, newRecord("cat", "", ""))
	require.NoError(t, err)
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ann, err := store.CreateUser(ctx, newRecord("ann", "ann@example.com", ""))
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, newRecord("bob", "bob@example.com", ""))
	require.NoError(t, err)

	name := "Anne"
	now := time.Now()
	updated, err := store.UpdateUser(ctx, ann.UserID, UserUpdate{Name: &name, LoginTime: &now})
	require.NoError(t, err)
	assert.Equal(t, "Anne", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
	require.NotNil(t, updated.LoginTime)

	taken := "bob@example.com"
	_, err = store.UpdateUser(ctx, ann.UserID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.UpdateUser(ctx, 99, UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_QueryUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 1; i <= 12; i++ {
		_, err := store.CreateUser(ctx, newRecord(fmt.Sprintf("user%02d", i), fmt.Sprintf("u%d@example.com", i), ""))
		require.NoError(t, err)
	}

	users, total, err := store.QueryUsers(ctx, models.UserQueryParams{Start: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, users, 5)
	assert.Equal(t, "user07", users[0].Username)

	users, total, err = store.QueryUsers(ctx, models.UserQueryParams{Username: "USER1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	users, total, err = store.QueryUsers(ctx, models.UserQueryParams{Start: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Empty(t, users)

	users, total, err = store.QueryUsers(ctx, models.UserQueryParams{Start: math.MaxInt / 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Empty(t, users)
}

func TestPaging(t *testing.T) {
	page, size, offset := Paging(models.UserQueryParams{})
	assert.Equal(t, []int{1, 10, 0}, []int{page, size, offset})

	page, size, offset = Paging(models.UserQueryParams{Start: 3, Limit: 20})
	assert.Equal(t, []int{3, 20, 40}, []int{page, size, offset})

	_, size, _ = Paging(models.UserQueryParams{Limit: 1000})
	assert.Equal(t, 100, size)

	page, size, offset = Paging(models.UserQueryParams{Start: math.MaxInt / 5, Limit: 10})
	assert.Equal(t, math.MaxInt/10, page)
	assert.GreaterOrEqual(t, offset, 0)
	assert.GreaterOrEqual(t, offset+size, offset)

	_, _, offset = Paging(models.UserQueryParams{Start: math.MaxInt})
	assert.GreaterOrEqual(t, offset, 0)
}
