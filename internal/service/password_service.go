package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/email"
	"workin/internal/repository"
)

// ErrRateLimited señala que se agotó la cuota de solicitudes para la clave.
var ErrRateLimited = errors.New("rate limited")

// PasswordService maneja el flujo de restablecimiento y el cambio directo de
// contraseña.
type PasswordService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	tokens  *TokenService
	sender  email.Sender
	limiter RateLimiter
}

func NewPasswordService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, sender email.Sender, limiter RateLimiter) *PasswordService {
	return &PasswordService{
		logger:  logger,
		users:   users,
		tokens:  tokens,
		sender:  sender,
		limiter: limiter,
	}
}

// ResetRequestResult incluye el token cuando el correo no pudo entregarse
// (mismo modo degradado que el registro).
type ResetRequestResult struct {
	EmailSent  bool
	ResetToken string
}

// RequestReset emite un token de reset y lo escribe en el slot pendiente del
// usuario, invalidando cualquier token de acción anterior.
func (s *PasswordService) RequestReset(ctx context.Context, emailAddr string) (ResetRequestResult, error) {
	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return ResetRequestResult{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ResetRequestResult{}, apperror.NotFound("user not found")
		}
		return ResetRequestResult{}, apperror.Internal("could not load user", err)
	}

	resetToken, err := s.tokens.Issue(Claims{Email: user.Email, TokenType: TokenTypeReset}, actionTokenTTL)
	if err != nil {
		return ResetRequestResult{}, apperror.Internal("could not issue reset token", err)
	}
	if err := s.users.SetActionTokenByEmail(ctx, user.Email, resetToken); err != nil {
		return ResetRequestResult{}, apperror.Internal("could not store reset token", err)
	}

	result := ResetRequestResult{EmailSent: true}
	if err := s.sender.SendPasswordResetEmail(ctx, user.Email, user.Name, resetToken); err != nil {
		s.logger.Warn("send reset email failed", zap.Error(err), zap.String("email", user.Email))
		result.EmailSent = false
		result.ResetToken = resetToken
	}
	return result, nil
}

// ResetPassword consume un token de reset. Expirado, adulterado o ya usado
// fallan de manera uniforme.
func (s *PasswordService) ResetPassword(ctx context.Context, token, newPassword string) (domain.User, error) {
	claims, err := s.tokens.Verify(token, TokenTypeReset)
	if err != nil {
		return domain.User{}, apperror.Authentication("invalid or expired token")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return domain.User{}, apperror.Internal("could not hash password", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, claims.Email, token, hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, apperror.Authentication("invalid or already used token")
		}
		return domain.User{}, apperror.Internal("could not reset password", err)
	}
	return user, nil
}

// ChangePassword cambia la contraseña de un usuario autenticado previa
// verificación de la contraseña actual.
func (s *PasswordService) ChangePassword(ctx context.Context, user domain.User, currentPassword, newPassword string) error {
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return apperror.Authentication("current password is incorrect")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("could not hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("user not found")
		}
		return apperror.Internal("could not update password", err)
	}
	return nil
}
