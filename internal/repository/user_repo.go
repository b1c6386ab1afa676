package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workin/internal/domain"
)

// ErrDuplicateEmail señala que el correo ya existe (violación del UNIQUE).
var ErrDuplicateEmail = errors.New("email already exists")

// Código SQLSTATE de unique_violation.
const uniqueViolationCode = "23505"

const userColumns = `id, nombre, correo, clave, COALESCE(sexo, ''), rol, empresa_id, discapacidad_id,
		verificado, COALESCE(token_verificacion, ''), fecha_registro`

// UserRepository define el contrato de persistencia para usuarios.
//
// Los métodos Consume* son actualizaciones condicionales atómicas: el predicado
// de validez y la mutación se ejecutan en una sola sentencia, de modo que ante
// llamadas concurrentes con el mismo token exactamente una gana y las demás
// reciben pgx.ErrNoRows.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, name, sex *string) (domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActionToken(ctx context.Context, id, token string) error
	SetActionTokenByEmail(ctx context.Context, email, token string) error
	ConsumeVerificationToken(ctx context.Context, token string) (domain.User, error)
	ConsumeResetToken(ctx context.Context, email, token, passwordHash string) (domain.User, error)
	ConsumeEmailChangeToken(ctx context.Context, id, token, newEmail string) (domain.User, error)
	EmailInUseByOther(ctx context.Context, email, excludeID string) (bool, error)
	PromoteToAdmin(ctx context.Context, id string) error
	ListDisabilities(ctx context.Context, userID string) ([]domain.UserDisability, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, nombre, correo, clave, sexo, rol, verificado, token_verificacion, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Sex,
		user.Role,
		user.Verified,
		user.ActionToken,
		user.RegisteredAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE correo = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY fecha_registro DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, name, sex *string) (domain.User, error) {
	const query = `
		UPDATE users
		SET nombre = COALESCE($1, nombre), sexo = COALESCE($2, sexo)
		WHERE id = $3
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, name, sex, id))
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET clave = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) SetActionToken(ctx context.Context, id, token string) error {
	const query = `UPDATE users SET token_verificacion = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) SetActionTokenByEmail(ctx context.Context, email, token string) error {
	const query = `UPDATE users SET token_verificacion = $1 WHERE correo = $2`
	tag, err := r.pool.Exec(ctx, query, token, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeVerificationToken marca como verificado al usuario cuyo slot contiene
// exactamente el token recibido, y limpia el slot en la misma sentencia.
func (r *PgUserRepository) ConsumeVerificationToken(ctx context.Context, token string) (domain.User, error) {
	const query = `
		UPDATE users
		SET verificado = TRUE, token_verificacion = NULL
		WHERE token_verificacion = $1
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, token))
}

func (r *PgUserRepository) ConsumeResetToken(ctx context.Context, email, token, passwordHash string) (domain.User, error) {
	const query = `
		UPDATE users
		SET clave = $1, token_verificacion = NULL
		WHERE correo = $2 AND token_verificacion = $3
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, passwordHash, email, token))
}

func (r *PgUserRepository) ConsumeEmailChangeToken(ctx context.Context, id, token, newEmail string) (domain.User, error) {
	const query = `
		UPDATE users
		SET correo = $1, token_verificacion = NULL
		WHERE id = $2 AND token_verificacion = $3
		RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, newEmail, id, token))
}

func (r *PgUserRepository) EmailInUseByOther(ctx context.Context, email, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE correo = $1 AND id <> $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&exists)
	return exists, err
}

func (r *PgUserRepository) PromoteToAdmin(ctx context.Context, id string) error {
	const query = `UPDATE users SET rol = $1 WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, domain.RoleAdmin, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) ListDisabilities(ctx context.Context, userID string) ([]domain.UserDisability, error) {
	const query = `
		SELECT ud.user_id, ud.discapacidad_id, d.nombre, COALESCE(ud.severidad, '')
		FROM user_discapacidades ud
		JOIN discapacidades d ON ud.discapacidad_id = d.id
		WHERE ud.user_id = $1
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.UserDisability
	for rows.Next() {
		var ud domain.UserDisability
		if err := rows.Scan(&ud.UserID, &ud.DisabilityID, &ud.DisabilityName, &ud.Severity); err != nil {
			return nil, err
		}
		list = append(list, ud)
	}
	return list, rows.Err()
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Sex,
		&u.Role,
		&u.CompanyID,
		&u.DisabilityID,
		&u.Verified,
		&u.ActionToken,
		&u.RegisteredAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
