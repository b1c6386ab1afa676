package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workin/internal/apperror"
	"workin/internal/domain"
	"workin/internal/repository"
)

// Vigencia de un código de invitación de administrador.
const inviteCodeTTL = 7 * 24 * time.Hour

// InviteService maneja la escalación de rol vía códigos de invitación.
type InviteService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	invites repository.InviteRepository
}

func NewInviteService(logger *zap.Logger, users repository.UserRepository, invites repository.InviteRepository) *InviteService {
	return &InviteService{
		logger:  logger,
		users:   users,
		invites: invites,
	}
}

// GenerateCode crea un código aleatorio de 128 bits con expiración a 7 días.
// El chequeo de rol admin ocurre en la ruta; acá solo se registra el creador.
func (s *InviteService) GenerateCode(ctx context.Context, admin domain.User) (domain.AdminInviteCode, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return domain.AdminInviteCode{}, apperror.Internal("could not generate invite code", err)
	}

	code := domain.AdminInviteCode{
		Code:       hex.EncodeToString(raw),
		ExpiryDate: time.Now().UTC().Add(inviteCodeTTL),
		CreatedBy:  admin.ID,
	}
	created, err := s.invites.Create(ctx, code)
	if err != nil {
		return domain.AdminInviteCode{}, apperror.Internal("could not store invite code", err)
	}
	return created, nil
}

// Activate consume un código vigente y escala el rol del usuario a admin.
// El consumo es una actualización condicional: de dos llamadas concurrentes
// sobre el mismo código gana exactamente una.
func (s *InviteService) Activate(ctx context.Context, user domain.User, code string) error {
	consumed, err := s.invites.Consume(ctx, code, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("invite code is invalid or expired")
		}
		return apperror.Internal("could not consume invite code", err)
	}

	if err := s.users.PromoteToAdmin(ctx, user.ID); err != nil {
		// Compensación: si la escalación no se aplicó, el código vuelve al
		// estado sin usar en lugar de quedar quemado.
		if relErr := s.invites.Release(ctx, consumed.ID); relErr != nil {
			s.logger.Error("release invite code failed",
				zap.Error(relErr),
				zap.Int64("invite_code_id", consumed.ID),
			)
		}
		return apperror.Internal("could not promote user", err)
	}

	s.logger.Info("admin role activated",
		zap.String("user_id", user.ID),
		zap.Int64("invite_code_id", consumed.ID),
	)
	return nil
}
