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

type dbClassificacao struct {
	ID                uint64
	Nome              string
	ServicoPericialID uint64
	ParentID          sql.NullInt64
	CreatedAt         time.Time
	UpdatedAt         sql.NullTime
	DeletedAt         sql.NullTime
}

func (db *dbClassificacao) ToDTO() dto.ClassificacaoDTO {
	result := dto.ClassificacaoDTO{
		ID:                db.ID,
		Nome:              db.Nome,
		ServicoPericialID: db.ServicoPericialID,
		CreatedAt:         db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt:         utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt:         utils.NullTimeToEmptyString(db.DeletedAt),
	}
	if db.ParentID.Valid {
		parent := uint64(db.ParentID.Int64)
		result.ParentID = &parent
	}
	return result
}

const classificacaoFields = "id, nome, servico_pericial_id, parent_id, created_at, updated_at, deleted_at"

// ClassificacaoRepositoryInterface atende as duas hierarquias de dois
// níveis do sistema, classificações de ocorrência e exames, que têm o
// mesmo formato de tabela (grupo com parent_id nulo, subgrupo apontando
// para o grupo).
type ClassificacaoRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string, servicoID uint64) ([]dto.ClassificacaoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ClassificacaoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ClassificacaoDTO, error)
	Arvore(ctx context.Context, servicoID uint64) ([]dto.ClassificacaoArvoreDTO, error)
	Create(ctx context.Context, payload dto.CreateClassificacaoDTO) (*dto.ClassificacaoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateClassificacaoDTO) (*dto.ClassificacaoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
	HasChildren(ctx context.Context, id uint64) (bool, error)
}

type classificacaoRepository struct {
	storage *pgxpool.Pool
	table   string
}

func NewClassificacaoRepository(storage *pgxpool.Pool, table string) ClassificacaoRepositoryInterface {
	return &classificacaoRepository{storage: storage, table: table}
}

func (r *classificacaoRepository) scanRow(row pgx.Row) (*dbClassificacao, error) {
	var dbRow dbClassificacao
	err := row.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.ServicoPericialID, &dbRow.ParentID,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *classificacaoRepository) list(ctx context.Context, limit, offset uint64, search string, servicoID uint64, deleted bool) ([]dto.ClassificacaoDTO, uint64, error) {
	conditions := []string{"deleted_at IS NULL"}
	if deleted {
		conditions[0] = "deleted_at IS NOT NULL"
	}
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("nome ILIKE $%d", len(args)))
	}
	if servicoID > 0 {
		args = append(args, servicoID)
		conditions = append(conditions, fmt.Sprintf("servico_pericial_id = $%d", len(args)))
	}
	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", r.table, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ClassificacaoDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY parent_id NULLS FIRST, nome LIMIT $%d OFFSET $%d",
		classificacaoFields, r.table, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]dto.ClassificacaoDTO, 0)
	for rows.Next() {
		var dbRow dbClassificacao
		if err := rows.Scan(&dbRow.ID, &dbRow.Nome, &dbRow.ServicoPericialID, &dbRow.ParentID,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, dbRow.ToDTO())
	}
	return items, total, rows.Err()
}

func (r *classificacaoRepository) List(ctx context.Context, limit, offset uint64, search string, servicoID uint64) ([]dto.ClassificacaoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, servicoID, false)
}

func (r *classificacaoRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ClassificacaoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, 0, true)
}

func (r *classificacaoRepository) Find(ctx context.Context, id uint64) (*dto.ClassificacaoDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL", classificacaoFields, r.table)
	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

// Arvore devolve os grupos do serviço pericial com seus subgrupos, já na
// forma que os dropdowns em cascata consomem.
func (r *classificacaoRepository) Arvore(ctx context.Context, servicoID uint64) ([]dto.ClassificacaoArvoreDTO, error) {
	query := fmt.Sprintf(`
		SELECT id, nome, parent_id FROM %s
		WHERE servico_pericial_id = $1 AND deleted_at IS NULL
		ORDER BY parent_id NULLS FIRST, nome`, r.table)

	rows, err := r.storage.Query(ctx, query, servicoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grupos := make([]dto.ClassificacaoArvoreDTO, 0)
	indexByID := make(map[uint64]int)
	for rows.Next() {
		var (
			id       uint64
			nome     string
			parentID sql.NullInt64
		)
		if err := rows.Scan(&id, &nome, &parentID); err != nil {
			return nil, err
		}
		if !parentID.Valid {
			indexByID[id] = len(grupos)
			grupos = append(grupos, dto.ClassificacaoArvoreDTO{
				ID:        id,
				Nome:      nome,
				Subgrupos: make([]dto.DropdownItemDTO, 0),
			})
			continue
		}
		// A ordenação garante que o grupo já foi lido; subgrupos órfãos
		// de grupo excluído são ignorados.
		if idx, ok := indexByID[uint64(parentID.Int64)]; ok {
			grupos[idx].Subgrupos = append(grupos[idx].Subgrupos, dto.DropdownItemDTO{ID: id, Nome: nome})
		}
	}
	return grupos, rows.Err()
}

func (r *classificacaoRepository) Create(ctx context.Context, payload dto.CreateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	query := fmt.Sprintf(
		"INSERT INTO %s (nome, servico_pericial_id, parent_id) VALUES ($1, $2, $3) RETURNING %s",
		r.table, classificacaoFields)
	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, payload.Nome, payload.ServicoPericialID, payload.ParentID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.ErrConflict
			case "23503":
				return nil, apperrors.NewHttpError(422, "Serviço pericial ou grupo informado não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *classificacaoRepository) Update(ctx context.Context, id uint64, payload dto.UpdateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	var setClauses []string
	var args []interface{}

	if payload.Nome.Valid {
		args = append(args, payload.Nome.String)
		setClauses = append(setClauses, fmt.Sprintf("nome = $%d", len(args)))
	}
	if payload.ServicoPericialID.Valid {
		args = append(args, payload.ServicoPericialID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("servico_pericial_id = $%d", len(args)))
	}
	if payload.ParentID.Valid {
		args = append(args, payload.ParentID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("parent_id = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return r.Find(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		r.table, strings.Join(setClauses, ", "), len(args), classificacaoFields)

	dbRow, err := r.scanRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.ErrConflict
			case "23503":
				return nil, apperrors.NewHttpError(422, "Serviço pericial ou grupo informado não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *classificacaoRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", r.table), id)
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

func (r *classificacaoRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", r.table), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *classificacaoRepository) HasChildren(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE parent_id = $1 AND deleted_at IS NULL)", r.table), id).Scan(&exists)
	return exists, err
}
