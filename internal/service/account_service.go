package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/email"
	"workin/internal/repository"
)

// TTL de los tokens de acción (verificación, reset, cambio de correo).
const actionTokenTTL = time.Hour

// AccountService maneja el registro y la verificación de cuentas.
type AccountService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	tokens  *TokenService
	sender  email.Sender
	limiter RateLimiter
}

func NewAccountService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, sender email.Sender, limiter RateLimiter) *AccountService {
	return &AccountService{
		logger:  logger,
		users:   users,
		tokens:  tokens,
		sender:  sender,
		limiter: limiter,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Sex      string
}

// RegisterResult incluye el token de verificación solo cuando el correo no
// pudo entregarse (modo degradado documentado: el caller es el canal de
// respaldo).
type RegisterResult struct {
	User              domain.User
	EmailSent         bool
	VerificationToken string
}

// Register crea una cuenta sin verificar y dispara el correo de verificación.
// La emisión de correos se limita por dirección; la falla de entrega del
// correo no es fatal.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	if s.limiter != nil && !s.limiter.Allow(input.Email) {
		return RegisterResult{}, ErrRateLimited
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return RegisterResult{}, apperror.Conflict("email is already registered")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return RegisterResult{}, apperror.Internal("could not check existing email", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return RegisterResult{}, apperror.Internal("could not hash password", err)
	}

	verificationToken, err := s.tokens.Issue(Claims{Email: input.Email, TokenType: TokenTypeVerify}, actionTokenTTL)
	if err != nil {
		return RegisterResult{}, apperror.Internal("could not issue verification token", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Sex:          input.Sex,
		Role:         domain.RoleUser,
		Verified:     false,
		ActionToken:  verificationToken,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Dos registros concurrentes pueden pasar el chequeo previo; la
		// restricción UNIQUE del correo es el árbitro final.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return RegisterResult{}, apperror.Conflict("email is already registered")
		}
		return RegisterResult{}, apperror.Internal("could not create user", err)
	}

	result := RegisterResult{User: user, EmailSent: true}
	if err := s.sender.SendVerificationEmail(ctx, user.Email, user.Name, verificationToken); err != nil {
		s.logger.Warn("send verification email failed", zap.Error(err), zap.String("email", user.Email))
		result.EmailSent = false
		result.VerificationToken = verificationToken
	}
	return result, nil
}

// Verify consume un token de verificación. La validez criptográfica no
// alcanza: el token literal debe coincidir con el slot pendiente del usuario,
// lo que invalida copias de tokens ya consumidos o reemplazados.
func (s *AccountService) Verify(ctx context.Context, token string) (domain.User, error) {
	if _, err := s.tokens.Verify(token, TokenTypeVerify); err != nil {
		return domain.User{}, apperror.Authentication("invalid or expired token")
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, apperror.Authentication("invalid or already used token")
		}
		return domain.User{}, apperror.Internal("could not verify account", err)
	}
	return user, nil
}
