package db

import (
	"context"
	"errors"
	"math"
	"time"

	"user-mgmt-go/pkg/models"
)

// Role ids assigned when none is given.
const (
	AdminRoleID   = 1
	DefaultRoleID = 2
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a unique column (username, email, tel) is taken.
	ErrDuplicate = errors.New("user already exists")
)

// UserRecord is a stored user together with its password hash.
type UserRecord struct {
	models.User
	PasswordHash string
}

// UserUpdate lists the columns to change; nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Tel          *string
	Avatar       *string
	PasswordHash *string
	LoginTime    *time.Time
}

// Store is the persistence layer for user accounts.
type Store interface {
	CreateUser(ctx context.Context, rec UserRecord) (*UserRecord, error)
	GetUserByID(ctx context.Context, id int64) (*UserRecord, error)
	GetUserByUsername(ctx context.Context, username string) (*UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetUserByTel(ctx context.Context, tel string) (*UserRecord, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*UserRecord, error)
	QueryUsers(ctx context.Context, q models.UserQueryParams) ([]models.User, int64, error)
	Ping(ctx context.Context) error
	Close()
}

// Paging normalizes the start/limit pair of a query into page number,
// page size and row offset.
func Paging(q models.UserQueryParams) (page, size, offset int) {
	page, size = q.Start, q.Limit
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	// offset + size must stay representable
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return page, size, (page - 1) * size
}
