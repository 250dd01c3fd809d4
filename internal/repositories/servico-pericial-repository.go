package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sistema-pericial/internal/dto"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbServicoPericial struct {
	ID        uint64
	Nome      string
	Sigla     sql.NullString
	CreatedAt time.Time
	UpdatedAt sql.NullTime
	DeletedAt sql.NullTime
}

func (db *dbServicoPericial) ToDTO() dto.ServicoPericialDTO {
	return dto.ServicoPericialDTO{
		ID:        db.ID,
		Nome:      db.Nome,
		Sigla:     utils.NullStringToString(db.Sigla),
		CreatedAt: db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt: utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt: utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const servicoPericialFields = "id, nome, sigla, created_at, updated_at, deleted_at"

type ServicoPericialRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ServicoPericialDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Create(ctx context.Context, payload dto.CreateServicoPericialDTO) (*dto.ServicoPericialDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateServicoPericialDTO) (*dto.ServicoPericialDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type servicoPericialRepository struct{ storage *pgxpool.Pool }

func NewServicoPericialRepository(storage *pgxpool.Pool) ServicoPericialRepositoryInterface {
	return &servicoPericialRepository{storage: storage}
}

func scanServicoPericial(row pgx.Row) (*dbServicoPericial, error) {
	var dbRow dbServicoPericial
	err := row.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.Sigla, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *servicoPericialRepository) list(ctx context.Context, limit, offset uint64, search string, deleted bool) ([]dto.ServicoPericialDTO, uint64, error) {
	whereClause := "WHERE deleted_at IS NULL"
	if deleted {
		whereClause = "WHERE deleted_at IS NOT NULL"
	}
	var args []interface{}
	if search != "" {
		whereClause += " AND (nome ILIKE $1 OR sigla ILIKE $1)"
		args = append(args, "%"+search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM servicos_periciais %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ServicoPericialDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM servicos_periciais %s ORDER BY nome LIMIT $%d OFFSET $%d",
		servicoPericialFields, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	servicos := make([]dto.ServicoPericialDTO, 0)
	for rows.Next() {
		var dbRow dbServicoPericial
		if err := rows.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.Sigla, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		servicos = append(servicos, dbRow.ToDTO())
	}
	return servicos, total, rows.Err()
}

func (r *servicoPericialRepository) List(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, false)
}

func (r *servicoPericialRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, true)
}

func (r *servicoPericialRepository) Find(ctx context.Context, id uint64) (*dto.ServicoPericialDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM servicos_periciais WHERE id = $1 AND deleted_at IS NULL", servicoPericialFields)
	dbRow, err := scanServicoPericial(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *servicoPericialRepository) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT id, nome FROM servicos_periciais WHERE deleted_at IS NULL ORDER BY nome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]dto.DropdownItemDTO, 0)
	for rows.Next() {
		var item dto.DropdownItemDTO
		if err := rows.Scan(&item.ID, &item.Nome); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *servicoPericialRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM servicos_periciais WHERE id = $1 AND deleted_at IS NULL)", id).Scan(&exists)
	return exists, err
}

func (r *servicoPericialRepository) Create(ctx context.Context, payload dto.CreateServicoPericialDTO) (*dto.ServicoPericialDTO, error) {
	var sigla interface{}
	if payload.Sigla != "" {
		sigla = payload.Sigla
	}
	query := fmt.Sprintf("INSERT INTO servicos_periciais (nome, sigla) VALUES ($1, $2) RETURNING %s", servicoPericialFields)
	dbRow, err := scanServicoPericial(r.storage.QueryRow(ctx, query, payload.Nome, sigla))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *servicoPericialRepository) Update(ctx context.Context, id uint64, payload dto.UpdateServicoPericialDTO) (*dto.ServicoPericialDTO, error) {
	var setClauses []string
	var args []interface{}

	if payload.Nome.Valid {
		args = append(args, payload.Nome.String)
		setClauses = append(setClauses, fmt.Sprintf("nome = $%d", len(args)))
	}
	if payload.Sigla.Valid {
		args = append(args, payload.Sigla.String)
		setClauses = append(setClauses, fmt.Sprintf("sigla = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return r.Find(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE servicos_periciais SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		strings.Join(setClauses, ", "), len(args), servicoPericialFields)

	dbRow, err := scanServicoPericial(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *servicoPericialRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE servicos_periciais SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrInUse
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *servicoPericialRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE servicos_periciais SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
