package http

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"workin/internal/domain"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) put(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
}

func (m *mockUserRepo) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByID[id]; ok {
		delete(m.usersByEmail, user.Email)
		delete(m.usersByID, id)
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.put(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	return m.usersByID[id], nil
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

func (m *mockUserRepo) SetActionTokenByEmail(_ context.Context, email, token string) error {
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

type mockEmailSender struct {
	lastToken string
	err       error
}

func (m *mockEmailSender) SendVerificationEmail(_ context.Context, _, _, token string) error {
	if m.err != nil {
		return m.err
	}
	m.lastToken = token
	return nil
}

func (m *mockEmailSender) SendPasswordResetEmail(_ context.Context, _, _, token string) error {
	if m.err != nil {
		return m.err
	}
	m.lastToken = token
	return nil
}

func (m *mockEmailSender) SendEmailChangeEmail(_ context.Context, _, _, token string) error {
	if m.err != nil {
		return m.err
	}
	m.lastToken = token
	return nil
}
