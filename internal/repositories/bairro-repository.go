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

type dbBairro struct {
	ID         uint64
	Nome       string
	CidadeID   uint64
	CidadeNome string
	CidadeUF   string
	CreatedAt  time.Time
	UpdatedAt  sql.NullTime
	DeletedAt  sql.NullTime
}

func (db *dbBairro) ToDTO() dto.BairroDTO {
	return dto.BairroDTO{
		ID:   db.ID,
		Nome: db.Nome,
		Cidade: dto.CidadeDTO{
			ID:   db.CidadeID,
			Nome: db.CidadeNome,
			UF:   db.CidadeUF,
		},
		CreatedAt: db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt: utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt: utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const bairroSelect = `
	SELECT b.id, b.nome, b.cidade_id, c.nome, c.uf,
	       b.created_at, b.updated_at, b.deleted_at
	FROM bairros b
	JOIN cidades c ON c.id = b.cidade_id`

type BairroRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string, cidadeID uint64) ([]dto.BairroDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.BairroDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.BairroDTO, error)
	Dropdown(ctx context.Context, cidadeID uint64) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateBairroDTO) (*dto.BairroDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateBairroDTO) (*dto.BairroDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type bairroRepository struct{ storage *pgxpool.Pool }

func NewBairroRepository(storage *pgxpool.Pool) BairroRepositoryInterface {
	return &bairroRepository{storage: storage}
}

func scanBairro(row pgx.Row) (*dbBairro, error) {
	var dbRow dbBairro
	err := row.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.CidadeID, &dbRow.CidadeNome, &dbRow.CidadeUF,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *bairroRepository) list(ctx context.Context, limit, offset uint64, search string, cidadeID uint64, deleted bool) ([]dto.BairroDTO, uint64, error) {
	conditions := []string{"b.deleted_at IS NULL"}
	if deleted {
		conditions[0] = "b.deleted_at IS NOT NULL"
	}
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("(b.nome ILIKE $%d OR c.nome ILIKE $%d)", len(args), len(args)))
	}
	if cidadeID > 0 {
		args = append(args, cidadeID)
		conditions = append(conditions, fmt.Sprintf("b.cidade_id = $%d", len(args)))
	}
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bairros b JOIN cidades c ON c.id = b.cidade_id %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.BairroDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("%s %s ORDER BY b.nome LIMIT $%d OFFSET $%d",
		bairroSelect, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bairros := make([]dto.BairroDTO, 0)
	for rows.Next() {
		var dbRow dbBairro
		if err := rows.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.CidadeID, &dbRow.CidadeNome, &dbRow.CidadeUF,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		bairros = append(bairros, dbRow.ToDTO())
	}
	return bairros, total, rows.Err()
}

func (r *bairroRepository) List(ctx context.Context, limit, offset uint64, search string, cidadeID uint64) ([]dto.BairroDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, cidadeID, false)
}

func (r *bairroRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.BairroDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, 0, true)
}

func (r *bairroRepository) Find(ctx context.Context, id uint64) (*dto.BairroDTO, error) {
	query := bairroSelect + " WHERE b.id = $1 AND b.deleted_at IS NULL"
	dbRow, err := scanBairro(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

// Dropdown lista apenas os bairros da cidade informada; o cadastro de
// ocorrência escolhe a cidade primeiro e o bairro em cascata.
func (r *bairroRepository) Dropdown(ctx context.Context, cidadeID uint64) ([]dto.DropdownItemDTO, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT id, nome FROM bairros WHERE cidade_id = $1 AND deleted_at IS NULL ORDER BY nome", cidadeID)
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

func (r *bairroRepository) Create(ctx context.Context, payload dto.CreateBairroDTO) (*dto.BairroDTO, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		"INSERT INTO bairros (nome, cidade_id) VALUES ($1, $2) RETURNING id",
		payload.Nome, payload.CidadeID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.ErrConflict
			case "23503":
				return nil, apperrors.NewHttpError(422, "Cidade informada não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	return r.Find(ctx, id)
}

func (r *bairroRepository) Update(ctx context.Context, id uint64, payload dto.UpdateBairroDTO) (*dto.BairroDTO, error) {
	var setClauses []string
	var args []interface{}

	if payload.Nome.Valid {
		args = append(args, payload.Nome.String)
		setClauses = append(setClauses, fmt.Sprintf("nome = $%d", len(args)))
	}
	if payload.CidadeID.Valid {
		args = append(args, payload.CidadeID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("cidade_id = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return r.Find(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE bairros SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(setClauses, ", "), len(args))

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.ErrConflict
			case "23503":
				return nil, apperrors.NewHttpError(422, "Cidade informada não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.Find(ctx, id)
}

func (r *bairroRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE bairros SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
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

func (r *bairroRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE bairros SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
