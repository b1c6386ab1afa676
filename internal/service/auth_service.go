package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/repository"
)

// Mensaje único para correo inexistente y contraseña incorrecta: evita que un
// observador enumere cuentas por el contenido de la respuesta. El caso "sin
// verificar" sí es distinguible, a propósito.
const loginFailedMessage = "incorrect email or password"

// AuthService maneja el login y la emisión del token de sesión.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	tokens     *TokenService
	sessionTTL time.Duration
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &AuthService{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// Login valida credenciales y devuelve el usuario junto con un token de
// sesión. Una cuenta sin verificar nunca puede autenticarse.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", apperror.Authentication(loginFailedMessage)
		}
		return domain.User{}, "", apperror.Internal("could not load user", err)
	}

	if !user.Verified {
		return domain.User{}, "", apperror.Forbidden("you must verify your account before logging in")
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, "", apperror.Authentication(loginFailedMessage)
	}

	token, err := s.tokens.Issue(Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		TokenType: TokenTypeSession,
	}, s.sessionTTL)
	if err != nil {
		return domain.User{}, "", apperror.Internal("could not issue session token", err)
	}
	return user, token, nil
}
