package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user-mgmt-go/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `user_id, username, name, COALESCE(email, ''), COALESCE(tel, ''), password,
	avatar, state, is_admin, role_id, login_time, create_time`

func scanUser(row pgx.Row) (*UserRecord, error) {
	var rec UserRecord
	err := row.Scan(
		&rec.UserID,
		&rec.Username,
		&rec.Name,
		&rec.Email,
		&rec.Tel,
		&rec.PasswordHash,
		&rec.Avatar,
		&rec.State,
		&rec.IsAdmin,
		&rec.RoleID,
		&rec.LoginTime,
		&rec.CreateTime,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func mapError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// CreateUser creates a new user
func (db *DB) CreateUser(ctx context.Context, rec UserRecord) (*UserRecord, error) {
	state := rec.State
	if state == "" {
		state = models.StateEnabled
	}
	isAdmin := rec.IsAdmin
	if isAdmin == "" {
		isAdmin = models.AdminNo
	}
	roleID := rec.RoleID
	if roleID == 0 {
		roleID = DefaultRoleID
	}

	created, err := scanUser(db.Pool.QueryRow(ctx,
		`INSERT INTO users (username, name, email, tel, password, avatar, state, is_admin, role_id)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)
		 RETURNING `+userColumns,
		rec.Username, rec.Name, rec.Email, rec.Tel, rec.PasswordHash, rec.Avatar, state, isAdmin, roleID,
	))
	if err != nil {
		return nil, mapError(err, "create user")
	}
	return created, nil
}

// GetUserByID retrieves a user by primary key
func (db *DB) GetUserByID(ctx context.Context, id int64) (*UserRecord, error) {
	return db.getUserBy(ctx, "user_id", id)
}

// GetUserByUsername retrieves a user by username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	return db.getUserBy(ctx, "username", username)
}

// GetUserByEmail retrieves a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return db.getUserBy(ctx, "email", email)
}

// GetUserByTel retrieves a user by phone number
func (db *DB) GetUserByTel(ctx context.Context, tel string) (*UserRecord, error) {
	return db.getUserBy(ctx, "tel", tel)
}

// column is always one of the constants above, never user input
func (db *DB) getUserBy(ctx context.Context, column string, value any) (*UserRecord, error) {
	rec, err := scanUser(db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`,
		value,
	))
	if err != nil {
		return nil, mapError(err, "get user")
	}
	return rec, nil
}

// UpdateUser updates an existing user
func (db *DB) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*UserRecord, error) {
	// Build dynamic update query based on provided fields
	sets := []string{}
	args := []interface{}{id}
	argPos := 2 // Start at $2 (after $1=id)

	add := func(expr string, value interface{}) {
		sets = append(sets, fmt.Sprintf(expr, argPos))
		args = append(args, value)
		argPos++
	}

	if update.Name != nil {
		add("name = $%d", *update.Name)
	}
	if update.Email != nil {
		add("email = NULLIF($%d, '')", *update.Email)
	}
	if update.Tel != nil {
		add("tel = NULLIF($%d, '')", *update.Tel)
	}
	if update.Avatar != nil {
		add("avatar = $%d", *update.Avatar)
	}
	if update.PasswordHash != nil {
		add("password = $%d", *update.PasswordHash)
	}
	if update.LoginTime != nil {
		add("login_time = $%d", *update.LoginTime)
	}

	if len(sets) == 0 {
		return db.GetUserByID(ctx, id)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = $1 RETURNING ` + userColumns

	rec, err := scanUser(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "update user")
	}
	return rec, nil
}

// QueryUsers lists users matching the non-empty filters, newest first
func (db *DB) QueryUsers(ctx context.Context, q models.UserQueryParams) ([]models.User, int64, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	filter := func(expr string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(expr, len(args)))
	}

	if q.Username != "" {
		filter("username ILIKE '%%' || $%d || '%%'", q.Username)
	}
	if q.Name != "" {
		filter("name ILIKE '%%' || $%d || '%%'", q.Name)
	}
	if q.Email != "" {
		filter("email ILIKE '%%' || $%d || '%%'", q.Email)
	}
	if q.Tel != "" {
		filter("tel LIKE '%%' || $%d || '%%'", q.Tel)
	}
	if q.State != "" {
		filter("state = $%d", q.State)
	}
	if q.IsAdmin != "" {
		filter("is_admin = $%d", q.IsAdmin)
	}
	if q.RoleID != 0 {
		filter("role_id = $%d", q.RoleID)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	_, size, offset := Paging(q)
	pageArgs := append(append([]interface{}{}, args...), size, offset)
	rows, err := db.Pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY create_time DESC, user_id DESC LIMIT $%d OFFSET $%d`,
			userColumns, cond, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, rec.User)
	}

	return users, total, rows.Err()
}
