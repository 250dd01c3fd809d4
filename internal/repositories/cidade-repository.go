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

type dbCidade struct {
	ID        uint64
	Nome      string
	UF        string
	CreatedAt time.Time
	UpdatedAt sql.NullTime
	DeletedAt sql.NullTime
}

func (db *dbCidade) ToDTO() dto.CidadeDTO {
	return dto.CidadeDTO{
		ID:        db.ID,
		Nome:      db.Nome,
		UF:        db.UF,
		CreatedAt: db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt: utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt: utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const (
	cidadeTable  = "cidades"
	cidadeFields = "id, nome, uf, created_at, updated_at, deleted_at"
)

type CidadeRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.CidadeDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateCidadeDTO) (*dto.CidadeDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateCidadeDTO) (*dto.CidadeDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type cidadeRepository struct{ storage *pgxpool.Pool }

func NewCidadeRepository(storage *pgxpool.Pool) CidadeRepositoryInterface {
	return &cidadeRepository{storage: storage}
}

func (r *cidadeRepository) list(ctx context.Context, limit, offset uint64, search string, deleted bool) ([]dto.CidadeDTO, uint64, error) {
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
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", cidadeTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.CidadeDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY nome LIMIT $%d OFFSET $%d",
		cidadeFields, cidadeTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cidades := make([]dto.CidadeDTO, 0)
	for rows.Next() {
		var dbRow dbCidade
		if err := rows.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.UF, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		cidades = append(cidades, dbRow.ToDTO())
	}
	return cidades, total, rows.Err()
}

func (r *cidadeRepository) List(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, false)
}

func (r *cidadeRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, true)
}

func (r *cidadeRepository) Find(ctx context.Context, id uint64) (*dto.CidadeDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL", cidadeFields, cidadeTable)
	var dbRow dbCidade
	err := r.storage.QueryRow(ctx, query, id).Scan(&dbRow.ID, &dbRow.Nome, &dbRow.UF, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *cidadeRepository) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf("SELECT id, nome FROM %s WHERE deleted_at IS NULL ORDER BY nome", cidadeTable))
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

func (r *cidadeRepository) Create(ctx context.Context, payload dto.CreateCidadeDTO) (*dto.CidadeDTO, error) {
	uf := payload.UF
	if uf == "" {
		uf = "RR"
	}
	query := fmt.Sprintf("INSERT INTO %s (nome, uf) VALUES ($1, $2) RETURNING %s", cidadeTable, cidadeFields)
	var dbRow dbCidade
	err := r.storage.QueryRow(ctx, query, payload.Nome, uf).
		Scan(&dbRow.ID, &dbRow.Nome, &dbRow.UF, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
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

func (r *cidadeRepository) Update(ctx context.Context, id uint64, payload dto.UpdateCidadeDTO) (*dto.CidadeDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if payload.Nome.Valid {
		setClauses = append(setClauses, fmt.Sprintf("nome = $%d", argID))
		args = append(args, payload.Nome.String)
		argID++
	}
	if payload.UF.Valid {
		setClauses = append(setClauses, fmt.Sprintf("uf = $%d", argID))
		args = append(args, payload.UF.String)
		argID++
	}
	if len(setClauses) == 0 {
		return r.Find(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		cidadeTable, strings.Join(setClauses, ", "), argID, cidadeFields)
	args = append(args, id)

	var dbRow dbCidade
	err := r.storage.QueryRow(ctx, query, args...).
		Scan(&dbRow.ID, &dbRow.Nome, &dbRow.UF, &dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *cidadeRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", cidadeTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *cidadeRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", cidadeTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
