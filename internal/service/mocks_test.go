package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"workin/internal/domain"
	"workin/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
	promoteErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getByIDLocked(id)
}

func (m *mockUserRepo) getByIDLocked(id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.getByIDLocked(id)
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id string, name, sex *string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if name != nil {
		user.Name = *name
	}
	if sex != nil {
		user.Sex = *sex
	}
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) SetActionToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ActionToken = token
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) SetActionTokenByEmail(ctx context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[email]
	if !ok {
		return pgx.ErrNoRows
	}
	user := m.usersByID[id]
	user.ActionToken = token
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) ConsumeVerificationToken(_ context.Context, token string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, user := range m.usersByID {
		if user.ActionToken != "" && user.ActionToken == token {
			user.Verified = true
			user.ActionToken = ""
			m.usersByID[id] = user
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) ConsumeResetToken(_ context.Context, email, token, passwordHash string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user := m.usersByID[id]
	if user.ActionToken == "" || user.ActionToken != token {
		return domain.User{}, pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.ActionToken = ""
	m.usersByID[id] = user
	return user, nil
}

func (m *mockUserRepo) ConsumeEmailChangeToken(_ context.Context, id, token, newEmail string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	if user.ActionToken == "" || user.ActionToken != token {
		return domain.User{}, pgx.ErrNoRows
	}
	delete(m.usersByEmail, user.Email)
	user.Email = newEmail
	user.ActionToken = ""
	m.usersByID[id] = user
	m.usersByEmail[newEmail] = id
	return user, nil
}

func (m *mockUserRepo) EmailInUseByOther(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[email]
	return ok && id != excludeID, nil
}

func (m *mockUserRepo) PromoteToAdmin(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.promoteErr != nil {
		return m.promoteErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = domain.RoleAdmin
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) ListDisabilities(_ context.Context, _ string) ([]domain.UserDisability, error) {
	return nil, nil
}

type sentEmail struct {
	kind  string
	to    string
	name  string
	token string
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *mockEmailSender) record(kind, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{kind: kind, to: to, name: name, token: token})
	return nil
}

func (m *mockEmailSender) SendVerificationEmail(_ context.Context, to, name, token string) error {
	return m.record("verification", to, name, token)
}

func (m *mockEmailSender) SendPasswordResetEmail(_ context.Context, to, name, token string) error {
	return m.record("reset", to, name, token)
}

func (m *mockEmailSender) SendEmailChangeEmail(_ context.Context, to, name, token string) error {
	return m.record("email_change", to, name, token)
}

type mockInviteRepo struct {
	mu    sync.Mutex
	codes map[string]domain.AdminInviteCode
	next  int64
}

func newMockInviteRepo() *mockInviteRepo {
	return &mockInviteRepo{codes: make(map[string]domain.AdminInviteCode)}
}

func (m *mockInviteRepo) Create(_ context.Context, code domain.AdminInviteCode) (domain.AdminInviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	code.ID = m.next
	m.codes[code.Code] = code
	return code, nil
}

func (m *mockInviteRepo) Consume(_ context.Context, code, userID string) (domain.AdminInviteCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[code]
	if !ok || c.Used || c.Expired(time.Now().UTC()) {
		return domain.AdminInviteCode{}, pgx.ErrNoRows
	}
	now := time.Now().UTC()
	c.Used = true
	c.UsedBy = &userID
	c.UsedAt = &now
	m.codes[code] = c
	return c, nil
}

func (m *mockInviteRepo) Release(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, c := range m.codes {
		if c.ID == id {
			c.Used = false
			c.UsedBy = nil
			c.UsedAt = nil
			m.codes[key] = c
			return nil
		}
	}
	return pgx.ErrNoRows
}
