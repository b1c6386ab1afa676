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

// EmailChangeService maneja el cambio de correo en dos pasos.
type EmailChangeService struct {
	logger *zap.Logger
	users  repository.UserRepository
	tokens *TokenService
	sender email.Sender
}

func NewEmailChangeService(logger *zap.Logger, users repository.UserRepository, tokens *TokenService, sender email.Sender) *EmailChangeService {
	return &EmailChangeService{
		logger: logger,
		users:  users,
		tokens: tokens,
		sender: sender,
	}
}

// EmailChangeResult incluye el token cuando el correo al nuevo destino no
// pudo entregarse.
type EmailChangeResult struct {
	EmailSent   bool
	ChangeToken string
}

// RequestChange emite un token de cambio de correo y lo envía a la dirección
// nueva. Requiere la contraseña actual del usuario autenticado.
func (s *EmailChangeService) RequestChange(ctx context.Context, user domain.User, currentPassword, newEmail string) (EmailChangeResult, error) {
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return EmailChangeResult{}, apperror.Authentication("current password is incorrect")
	}

	inUse, err := s.users.EmailInUseByOther(ctx, newEmail, user.ID)
	if err != nil {
		return EmailChangeResult{}, apperror.Internal("could not check email availability", err)
	}
	if inUse {
		return EmailChangeResult{}, apperror.Conflict("email is already in use by another user")
	}

	changeToken, err := s.tokens.Issue(Claims{
		UserID:    user.ID,
		Email:     user.Email,
		NewEmail:  newEmail,
		TokenType: TokenTypeEmailChange,
	}, actionTokenTTL)
	if err != nil {
		return EmailChangeResult{}, apperror.Internal("could not issue email change token", err)
	}
	if err := s.users.SetActionToken(ctx, user.ID, changeToken); err != nil {
		return EmailChangeResult{}, apperror.Internal("could not store email change token", err)
	}

	result := EmailChangeResult{EmailSent: true}
	if err := s.sender.SendEmailChangeEmail(ctx, newEmail, user.Name, changeToken); err != nil {
		s.logger.Warn("send email change email failed", zap.Error(err), zap.String("email", newEmail))
		result.EmailSent = false
		result.ChangeToken = changeToken
	}
	return result, nil
}

// ConfirmChange consume el token y aplica el correo nuevo. El token literal
// debe coincidir con el slot pendiente del usuario reclamado, lo que bloquea
// replays de tokens ya confirmados o reemplazados.
func (s *EmailChangeService) ConfirmChange(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.tokens.Verify(token, TokenTypeEmailChange)
	if err != nil {
		return domain.User{}, apperror.Authentication("invalid or expired token")
	}
	if claims.UserID == "" || claims.NewEmail == "" {
		return domain.User{}, apperror.Authentication("invalid or expired token")
	}

	user, err := s.users.ConsumeEmailChangeToken(ctx, claims.UserID, token, claims.NewEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, apperror.NotFound("invalid or already used token")
		}
		return domain.User{}, apperror.Internal("could not update email", err)
	}
	return user, nil
}
