package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workin/internal/domain"
)

// CompanyRepository define el contrato de persistencia para empresas.
type CompanyRepository interface {
	List(ctx context.Context) ([]domain.Company, error)
	GetByID(ctx context.Context, id int64) (domain.Company, error)
	NameExists(ctx context.Context, name string) (bool, error)
	// CreateWithOwner inserta la empresa y asigna rol de empresa al usuario
	// creador dentro de la misma transacción.
	CreateWithOwner(ctx context.Context, name, ownerUserID string) (domain.Company, error)
	UpdateName(ctx context.Context, id int64, name string) (domain.Company, error)
}

// PgCompanyRepository implementa CompanyRepository usando pgxpool.
type PgCompanyRepository struct {
	pool *pgxpool.Pool
}

func NewPgCompanyRepository(pool *pgxpool.Pool) *PgCompanyRepository {
	return &PgCompanyRepository{pool: pool}
}

func (r *PgCompanyRepository) List(ctx context.Context) ([]domain.Company, error) {
	const query = `
		SELECT id, nombre, fecha_creacion, calificacion
		FROM empresas
		ORDER BY nombre
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.Rating); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *PgCompanyRepository) GetByID(ctx context.Context, id int64) (domain.Company, error) {
	const query = `
		SELECT id, nombre, fecha_creacion, calificacion
		FROM empresas
		WHERE id = $1
	`
	var c domain.Company
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.Rating)
	if err != nil {
		return domain.Company{}, err
	}

	const jobsQuery = `
		SELECT id, empresa_id, titulo, descripcion, fecha_publicacion
		FROM empleos
		WHERE empresa_id = $1
		ORDER BY fecha_publicacion DESC
	`
	rows, err := r.pool.Query(ctx, jobsQuery, id)
	if err != nil {
		return domain.Company{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.PublishedAt); err != nil {
			return domain.Company{}, err
		}
		c.Jobs = append(c.Jobs, j)
	}
	return c, rows.Err()
}

func (r *PgCompanyRepository) NameExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM empresas WHERE nombre = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, name).Scan(&exists)
	return exists, err
}

func (r *PgCompanyRepository) CreateWithOwner(ctx context.Context, name, ownerUserID string) (domain.Company, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Company{}, err
	}
	defer tx.Rollback(ctx)

	const insertQuery = `
		INSERT INTO empresas (nombre, fecha_creacion)
		VALUES ($1, now())
		RETURNING id, nombre, fecha_creacion
	`
	var c domain.Company
	if err := tx.QueryRow(ctx, insertQuery, name).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return domain.Company{}, err
	}

	const ownerQuery = `UPDATE users SET rol = $1, empresa_id = $2 WHERE id = $3`
	if _, err := tx.Exec(ctx, ownerQuery, domain.RoleCompany, c.ID, ownerUserID); err != nil {
		return domain.Company{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Company{}, err
	}
	return c, nil
}

func (r *PgCompanyRepository) UpdateName(ctx context.Context, id int64, name string) (domain.Company, error) {
	const query = `
		UPDATE empresas
		SET nombre = $1
		WHERE id = $2
		RETURNING id, nombre, fecha_creacion, calificacion
	`
	var c domain.Company
	err := r.pool.QueryRow(ctx, query, name, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.Rating)
	if err != nil {
		return domain.Company{}, err
	}
	return c, nil
}
