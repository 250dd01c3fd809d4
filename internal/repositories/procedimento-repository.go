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

type dbProcedimento struct {
	ID                    uint64
	Numero                string
	TipoProcedimentoID    uint64
	TipoProcedimentoNome  string
	AutoridadeID          sql.NullInt64
	AutoridadeNome        sql.NullString
	UnidadeDemandanteID   sql.NullInt64
	UnidadeDemandanteNome sql.NullString
	CreatedAt             time.Time
	UpdatedAt             sql.NullTime
	DeletedAt             sql.NullTime
}

func (db *dbProcedimento) ToDTO() dto.ProcedimentoDTO {
	result := dto.ProcedimentoDTO{
		ID:     db.ID,
		Numero: db.Numero,
		TipoProcedimento: dto.DropdownItemDTO{
			ID:   db.TipoProcedimentoID,
			Nome: db.TipoProcedimentoNome,
		},
		CreatedAt: db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt: utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt: utils.NullTimeToEmptyString(db.DeletedAt),
	}
	if db.AutoridadeID.Valid {
		result.Autoridade = dto.DropdownItemDTO{
			ID:   uint64(db.AutoridadeID.Int64),
			Nome: utils.NullStringToString(db.AutoridadeNome),
		}
	}
	if db.UnidadeDemandanteID.Valid {
		result.UnidadeDemandante = dto.DropdownItemDTO{
			ID:   uint64(db.UnidadeDemandanteID.Int64),
			Nome: utils.NullStringToString(db.UnidadeDemandanteNome),
		}
	}
	return result
}

const procedimentoSelect = `
	SELECT p.id, p.numero,
	       p.tipo_procedimento_id, tp.nome,
	       p.autoridade_id, a.nome,
	       p.unidade_demandante_id, ud.nome,
	       p.created_at, p.updated_at, p.deleted_at
	FROM procedimentos_cadastrados p
	JOIN tipos_procedimento tp ON tp.id = p.tipo_procedimento_id
	LEFT JOIN autoridades a ON a.id = p.autoridade_id
	LEFT JOIN unidades_demandantes ud ON ud.id = p.unidade_demandante_id`

type ProcedimentoRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ProcedimentoDTO, error)
	FindByNumero(ctx context.Context, numero string) (*dto.ProcedimentoDTO, error)
	Create(ctx context.Context, payload dto.CreateProcedimentoDTO) (*dto.ProcedimentoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateProcedimentoDTO) (*dto.ProcedimentoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type procedimentoRepository struct{ storage *pgxpool.Pool }

func NewProcedimentoRepository(storage *pgxpool.Pool) ProcedimentoRepositoryInterface {
	return &procedimentoRepository{storage: storage}
}

func scanProcedimento(row pgx.Row) (*dbProcedimento, error) {
	var dbRow dbProcedimento
	err := row.Scan(&dbRow.ID, &dbRow.Numero,
		&dbRow.TipoProcedimentoID, &dbRow.TipoProcedimentoNome,
		&dbRow.AutoridadeID, &dbRow.AutoridadeNome,
		&dbRow.UnidadeDemandanteID, &dbRow.UnidadeDemandanteNome,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

func (r *procedimentoRepository) list(ctx context.Context, limit, offset uint64, search string, deleted bool) ([]dto.ProcedimentoDTO, uint64, error) {
	whereClause := "WHERE p.deleted_at IS NULL"
	if deleted {
		whereClause = "WHERE p.deleted_at IS NOT NULL"
	}
	var args []interface{}
	if search != "" {
		whereClause += " AND (p.numero ILIKE $1 OR tp.nome ILIKE $1 OR a.nome ILIKE $1)"
		args = append(args, "%"+search+"%")
	}

	var total uint64
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM procedimentos_cadastrados p
		JOIN tipos_procedimento tp ON tp.id = p.tipo_procedimento_id
		LEFT JOIN autoridades a ON a.id = p.autoridade_id
		%s`, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ProcedimentoDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("%s %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		procedimentoSelect, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	procedimentos := make([]dto.ProcedimentoDTO, 0)
	for rows.Next() {
		var dbRow dbProcedimento
		if err := rows.Scan(&dbRow.ID, &dbRow.Numero,
			&dbRow.TipoProcedimentoID, &dbRow.TipoProcedimentoNome,
			&dbRow.AutoridadeID, &dbRow.AutoridadeNome,
			&dbRow.UnidadeDemandanteID, &dbRow.UnidadeDemandanteNome,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, 0, err
		}
		procedimentos = append(procedimentos, dbRow.ToDTO())
	}
	return procedimentos, total, rows.Err()
}

func (r *procedimentoRepository) List(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, false)
}

func (r *procedimentoRepository) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error) {
	return r.list(ctx, limit, offset, search, true)
}

func (r *procedimentoRepository) Find(ctx context.Context, id uint64) (*dto.ProcedimentoDTO, error) {
	query := procedimentoSelect + " WHERE p.id = $1 AND p.deleted_at IS NULL"
	dbRow, err := scanProcedimento(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

// FindByNumero atende a busca exata usada ao vincular um procedimento a
// uma ocorrência já registrada.
func (r *procedimentoRepository) FindByNumero(ctx context.Context, numero string) (*dto.ProcedimentoDTO, error) {
	query := procedimentoSelect + " WHERE p.numero = $1 AND p.deleted_at IS NULL"
	dbRow, err := scanProcedimento(r.storage.QueryRow(ctx, query, numero))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *procedimentoRepository) Create(ctx context.Context, payload dto.CreateProcedimentoDTO) (*dto.ProcedimentoDTO, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO procedimentos_cadastrados (numero, tipo_procedimento_id, autoridade_id, unidade_demandante_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		payload.Numero, payload.TipoProcedimentoID, payload.AutoridadeID, payload.UnidadeDemandanteID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.NewHttpError(409, "Já existe procedimento com este número", apperrors.ErrConflict, nil)
			case "23503":
				return nil, apperrors.NewHttpError(422, "Tipo de procedimento, autoridade ou unidade informada não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	return r.Find(ctx, id)
}

func (r *procedimentoRepository) Update(ctx context.Context, id uint64, payload dto.UpdateProcedimentoDTO) (*dto.ProcedimentoDTO, error) {
	var setClauses []string
	var args []interface{}

	if payload.Numero.Valid {
		args = append(args, payload.Numero.String)
		setClauses = append(setClauses, fmt.Sprintf("numero = $%d", len(args)))
	}
	if payload.TipoProcedimentoID.Valid {
		args = append(args, payload.TipoProcedimentoID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("tipo_procedimento_id = $%d", len(args)))
	}
	if payload.AutoridadeID.Valid {
		args = append(args, payload.AutoridadeID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("autoridade_id = $%d", len(args)))
	}
	if payload.UnidadeDemandanteID.Valid {
		args = append(args, payload.UnidadeDemandanteID.Uint64)
		setClauses = append(setClauses, fmt.Sprintf("unidade_demandante_id = $%d", len(args)))
	}
	if len(setClauses) == 0 {
		return r.Find(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE procedimentos_cadastrados SET %s WHERE id = $%d AND deleted_at IS NULL",
		strings.Join(setClauses, ", "), len(args))

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.NewHttpError(409, "Já existe procedimento com este número", apperrors.ErrConflict, nil)
			case "23503":
				return nil, apperrors.NewHttpError(422, "Tipo de procedimento, autoridade ou unidade informada não existe", apperrors.ErrNotFound, nil)
			}
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.Find(ctx, id)
}

func (r *procedimentoRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE procedimentos_cadastrados SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
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

func (r *procedimentoRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE procedimentos_cadastrados SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
