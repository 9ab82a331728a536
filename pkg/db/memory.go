package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"user-mgmt-go/pkg/models"
)

// MemoryStore is an in-process Store used when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]UserRecord
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]UserRecord),
		now:   time.Now,
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, rec UserRecord) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if conflicts(existing, rec.Username, rec.Email, rec.Tel) {
			return nil, ErrDuplicate
		}
	}

	m.nextID++
	created := m.now()
	rec.UserID = m.nextID
	rec.CreateTime = &created
	rec.LoginTime = nil
	if rec.State == "" {
		rec.State = models.StateEnabled
	}
	if rec.IsAdmin == "" {
		rec.IsAdmin = models.AdminNo
	}
	if rec.RoleID == 0 {
		rec.RoleID = DefaultRoleID
	}
	rec.Password = ""
	m.users[rec.UserID] = rec

	out := rec
	return &out, nil
}

func conflicts(u UserRecord, username, email, tel string) bool {
	return (username != "" && u.Username == username) ||
		(email != "" && u.Email == email) ||
		(tel != "" && u.Tel == tel)
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*UserRecord, error) {
	return m.find(func(u UserRecord) bool { return u.Username == username })
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*UserRecord, error) {
	return m.find(func(u UserRecord) bool { return u.Email == email })
}

func (m *MemoryStore) GetUserByTel(_ context.Context, tel string) (*UserRecord, error) {
	return m.find(func(u UserRecord) bool { return u.Tel == tel })
}

func (m *MemoryStore) find(match func(UserRecord) bool) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.users {
		if match(rec) {
			out := rec
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateUser(_ context.Context, id int64, update UserUpdate) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	var email, tel string
	if update.Email != nil {
		email = *update.Email
	}
	if update.Tel != nil {
		tel = *update.Tel
	}
	for otherID, other := range m.users {
		if otherID != id && conflicts(other, "", email, tel) {
			return nil, ErrDuplicate
		}
	}

	if update.Name != nil {
		rec.Name = *update.Name
	}
	if update.Email != nil {
		rec.Email = *update.Email
	}
	if update.Tel != nil {
		rec.Tel = *update.Tel
	}
	if update.Avatar != nil {
		rec.Avatar = *update.Avatar
	}
	if update.PasswordHash != nil {
		rec.PasswordHash = *update.PasswordHash
	}
	if update.LoginTime != nil {
		t := *update.LoginTime
		rec.LoginTime = &t
	}
	m.users[id] = rec

	out := rec
	return &out, nil
}

func (m *MemoryStore) QueryUsers(_ context.Context, q models.UserQueryParams) ([]models.User, int64, error) {
	m.mu.RLock()
	matched := []models.User{}
	for _, rec := range m.users {
		if matches(rec.User, q) {
			matched = append(matched, rec.User)
		}
	}
	m.mu.RUnlock()

	// newest first, matching the SQL ordering
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UserID > matched[j].UserID
	})

	total := int64(len(matched))
	_, size, offset := Paging(q)
	if offset >= len(matched) {
		return []models.User{}, total, nil
	}
	end := offset + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func matches(u models.User, q models.UserQueryParams) bool {
	contains := func(field, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(field), strings.ToLower(sub))
	}
	return contains(u.Username, q.Username) &&
		contains(u.Name, q.Name) &&
		contains(u.Email, q.Email) &&
		contains(u.Tel, q.Tel) &&
		(q.State == "" || u.State == q.State) &&
		(q.IsAdmin == "" || u.IsAdmin == q.IsAdmin) &&
		(q.RoleID == 0 || u.RoleID == q.RoleID)
}

// Close is a no-op.
func (m *MemoryStore) Close() {}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }
