package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workin/internal/domain"
)

// JobFilter acota y ordena el listado de empleos.
type JobFilter struct {
	Page      int
	Limit     int
	CompanyID *int64
	Title     string
	OrderBy   string
	Order     string
}

// JobRepository define el contrato de persistencia para empleos.
type JobRepository interface {
	List(ctx context.Context, filter JobFilter) (domain.JobPage, error)
	GetByID(ctx context.Context, id int64) (domain.Job, error)
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	Update(ctx context.Context, job domain.Job) (domain.Job, error)
	Delete(ctx context.Context, id int64) error
}

// Columnas por las que se permite ordenar el listado.
var allowedJobOrders = map[string]string{
	"fecha_publicacion": "fecha_publicacion",
	"titulo":            "titulo",
}

// PgJobRepository implementa JobRepository usando pgxpool.
type PgJobRepository struct {
	pool *pgxpool.Pool
}

func NewPgJobRepository(pool *pgxpool.Pool) *PgJobRepository {
	return &PgJobRepository{pool: pool}
}

func (r *PgJobRepository) List(ctx context.Context, filter JobFilter) (domain.JobPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	orderBy, ok := allowedJobOrders[filter.OrderBy]
	if !ok {
		orderBy = "fecha_publicacion"
	}
	order := "DESC"
	if filter.Order == "ASC" || filter.Order == "asc" {
		order = "ASC"
	}

	where := " WHERE 1=1"
	args := []any{}
	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		where += fmt.Sprintf(" AND e.empresa_id = $%d", len(args))
	}
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		where += fmt.Sprintf(" AND e.titulo ILIKE $%d", len(args))
	}

	countQuery := "SELECT COUNT(*) FROM empleos e" + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.JobPage{}, err
	}

	query := `
		SELECT e.id, e.empresa_id, emp.nombre, e.titulo, e.descripcion, e.fecha_publicacion
		FROM empleos e
		LEFT JOIN empresas emp ON e.empresa_id = emp.id` + where +
		fmt.Sprintf(" ORDER BY e.%s %s LIMIT $%d OFFSET $%d", orderBy, order, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return domain.JobPage{}, err
	}
	defer rows.Close()

	page := domain.JobPage{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	page.TotalPages = (total + filter.Limit - 1) / filter.Limit
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.PublishedAt); err != nil {
			return domain.JobPage{}, err
		}
		page.Jobs = append(page.Jobs, j)
	}
	return page, rows.Err()
}

func (r *PgJobRepository) GetByID(ctx context.Context, id int64) (domain.Job, error) {
	const query = `
		SELECT e.id, e.empresa_id, emp.nombre, e.titulo, e.descripcion, e.fecha_publicacion
		FROM empleos e
		LEFT JOIN empresas emp ON e.empresa_id = emp.id
		WHERE e.id = $1
	`
	var j domain.Job
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.PublishedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}
	return j, nil
}

func (r *PgJobRepository) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	const query = `
		INSERT INTO empleos (empresa_id, titulo, descripcion, fecha_publicacion)
		VALUES ($1, $2, $3, now())
		RETURNING id, fecha_publicacion
	`
	err := r.pool.QueryRow(ctx, query, job.CompanyID, job.Title, job.Description).
		Scan(&job.ID, &job.PublishedAt)
	if err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

func (r *PgJobRepository) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	const query = `
		UPDATE empleos
		SET titulo = COALESCE(NULLIF($1, ''), titulo),
			descripcion = COALESCE(NULLIF($2, ''), descripcion)
		WHERE id = $3
		RETURNING id, empresa_id, titulo, descripcion, fecha_publicacion
	`
	var updated domain.Job
	err := r.pool.QueryRow(ctx, query, job.Title, job.Description, job.ID).Scan(
		&updated.ID, &updated.CompanyID, &updated.Title, &updated.Description, &updated.PublishedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}
	return updated, nil
}

func (r *PgJobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM empleos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
