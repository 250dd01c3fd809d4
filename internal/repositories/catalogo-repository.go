package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sistema-pericial/internal/dto"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbCatalogo struct {
	ID        uint64
	Nome      string
	CreatedAt time.Time
	UpdatedAt sql.NullTime
	DeletedAt sql.NullTime
}

func (db *dbCatalogo) ToDTO() dto.CatalogoDTO {
	return dto.CatalogoDTO{
		ID:        db.ID,
		Nome:      db.Nome,
		CreatedAt: db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt: utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt: utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const catalogoFields = "id, nome, created_at, updated_at, deleted_at"

// CatalogoRepositoryInterface cobre os dicionários simples do sistema
// (cargos, autoridades, tipos de procedimento, tipos de documento e
// unidades demandantes): todos compartilham o mesmo formato de tabela,
// então um único repositório parametrizado atende os cinco.
type CatalogoRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.CatalogoDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateCatalogoDTO) (*dto.CatalogoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateCatalogoDTO) (*dto.CatalogoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
	Table() string
}

type catalogoRepository struct {
	storage *pgxpool.Pool
	table   string
}

func NewCatalogoRepository(storage *pgxpool.Pool, table string) CatalogoRepositoryInterface {
	return &catalogoRepository{storage: storage, table: table}
}

func (r *catalogoRepository) Table() string { return r.table }

func (r *catalogoRepository) scanRow(row pgx.Row) (*dbCatalogo, error) {
	var dbRow dbCatalogo
	err := row.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *catalogoRepository) list(ctx context.Context, limit, offset uint64, search string, deleted bool) ([]dto.CatalogoDTO, uint64, error) {
	whereClause := "WHERE deleted_at IS NULL"
	if deleted {
		whereClause = "WHERE deleted_at IS NOT NULL"
	}

	var args []interface{}
	if search != "" {
		whereClause += " AND nome ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", r.table, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.CatalogoDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY nome LIMIT $%d OFFSET $%d",
		catalogoFields, r.table, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]dto.CatalogoDTO, 0)
	for rows.Next() {
		var dbRow dbCatalogo
		if err := rows.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, dbRow.ToDTO())
	}
	return items, total, rows.Err()
}

func (r *catalogoRepository) List(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, false)
}

// ListLixeira busca com filtro no servidor, igual à listagem principal.
func (r *catalogoRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, true)
}

func (r *catalogoRepository) Find(ctx context.Context, id uint64) (*dto.CatalogoDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL", catalogoFields, r.table)
	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *catalogoRepository) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	query := fmt.Sprintf("SELECT id, nome FROM %s WHERE deleted_at IS NULL ORDER BY nome", r.table)
	rows, err := r.storage.Query(ctx, query)
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

func (r *catalogoRepository) Create(ctx context.Context, payload dto.CreateCatalogoDTO) (*dto.CatalogoDTO, error) {
	query := fmt.Sprintf("INSERT INTO %s (nome) VALUES ($1) RETURNING %s", r.table, catalogoFields)
	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, payload.Nome))
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

func (r *catalogoRepository) Update(ctx context.Context, id uint64, payload dto.UpdateCatalogoDTO) (*dto.CatalogoDTO, error) {
	if !payload.Nome.Valid {
		return r.Find(ctx, id)
	}
	query := fmt.Sprintf(
		"UPDATE %s SET nome = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL RETURNING %s",
		r.table, catalogoFields)
	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, payload.Nome.String, id))
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

func (r *catalogoRepository) SoftDelete(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", r.table)
	result, err := r.storage.Exec(ctx, query, id)
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

func (r *catalogoRepository) Restore(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", r.table)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
