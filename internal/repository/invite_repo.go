package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"workin/internal/domain"
)

// InviteRepository define el contrato de persistencia para códigos de invitación.
type InviteRepository interface {
	Create(ctx context.Context, code domain.AdminInviteCode) (domain.AdminInviteCode, error)
	// Consume marca el código como usado si y solo si sigue vigente. El chequeo
	// y la mutación son una sola sentencia condicional: ante llamadas
	// concurrentes sobre el mismo código exactamente una gana y el resto
	// recibe pgx.ErrNoRows.
	Consume(ctx context.Context, code, userID string) (domain.AdminInviteCode, error)
	// Release revierte un consumo cuya escalación de rol falló, devolviendo el
	// código al estado sin usar.
	Release(ctx context.Context, id int64) error
}

// PgInviteRepository implementa InviteRepository usando pgxpool.
type PgInviteRepository struct {
	pool *pgxpool.Pool
}

func NewPgInviteRepository(pool *pgxpool.Pool) *PgInviteRepository {
	return &PgInviteRepository{pool: pool}
}

func (r *PgInviteRepository) Create(ctx context.Context, code domain.AdminInviteCode) (domain.AdminInviteCode, error) {
	const query = `
		INSERT INTO admin_invite_codes (code, expiry_date, created_by)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, code.Code, code.ExpiryDate, code.CreatedBy).Scan(&code.ID)
	if err != nil {
		return domain.AdminInviteCode{}, err
	}
	return code, nil
}

func (r *PgInviteRepository) Consume(ctx context.Context, code, userID string) (domain.AdminInviteCode, error) {
	const query = `
		UPDATE admin_invite_codes
		SET used = TRUE, used_by = $1, used_at = now()
		WHERE code = $2 AND used = FALSE AND expiry_date > now()
		RETURNING id, code, expiry_date, created_by, used, used_by, used_at
	`
	var c domain.AdminInviteCode
	err := r.pool.QueryRow(ctx, query, userID, code).Scan(
		&c.ID,
		&c.Code,
		&c.ExpiryDate,
		&c.CreatedBy,
		&c.Used,
		&c.UsedBy,
		&c.UsedAt,
	)
	if err != nil {
		return domain.AdminInviteCode{}, err
	}
	return c, nil
}

func (r *PgInviteRepository) Release(ctx context.Context, id int64) error {
	const query = `
		UPDATE admin_invite_codes
		SET used = FALSE, used_by = NULL, used_at = NULL
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
