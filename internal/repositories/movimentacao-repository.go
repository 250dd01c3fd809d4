package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistema-pericial/internal/dto"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

type dbMovimentacao struct {
	ID                uint64
	OcorrenciaID      uint64
	Assunto           string
	Descricao         string
	CriadaPorID       uint64
	CriadaPorNome     string
	AtualizadaPorID   sql.NullInt64
	AtualizadaPorNome sql.NullString
	CreatedAt         time.Time
	UpdatedAt         sql.NullTime
	DeletedAt         sql.NullTime
}

func (db *dbMovimentacao) ToDTO() dto.MovimentacaoDTO {
	return dto.MovimentacaoDTO{
		ID:            db.ID,
		OcorrenciaID:  db.OcorrenciaID,
		Assunto:       db.Assunto,
		Descricao:     db.Descricao,
		CriadaPor:     dto.ShortUsuarioDTO{ID: db.CriadaPorID, NomeCompleto: db.CriadaPorNome},
		AtualizadaPor: nullShortUsuario(db.AtualizadaPorID, db.AtualizadaPorNome),
		CreatedAt:     db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt:     utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt:     utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

const movimentacaoSelect = `
	SELECT m.id, m.ocorrencia_id, m.assunto, m.descricao,
	       m.created_by, cri.nome_completo,
	       m.updated_by, atu.nome_completo,
	       m.created_at, m.updated_at, m.deleted_at
	FROM movimentacoes m
	JOIN usuarios cri ON cri.id = m.created_by
	LEFT JOIN usuarios atu ON atu.id = m.updated_by`

type MovimentacaoRepositoryInterface interface {
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.MovimentacaoDTO, error)
	Find(ctx context.Context, id uint64) (*dto.MovimentacaoDTO, error)
	Create(ctx context.Context, ocorrenciaID uint64, payload dto.CreateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error)
	SoftDelete(ctx context.Context, id uint64, autorID uint64) error
}

type movimentacaoRepository struct{ storage *pgxpool.Pool }

func NewMovimentacaoRepository(storage *pgxpool.Pool) MovimentacaoRepositoryInterface {
	return &movimentacaoRepository{storage: storage}
}

func scanMovimentacao(row pgx.Row) (*dbMovimentacao, error) {
	var dbRow dbMovimentacao
	err := row.Scan(&dbRow.ID, &dbRow.OcorrenciaID, &dbRow.Assunto, &dbRow.Descricao,
		&dbRow.CriadaPorID, &dbRow.CriadaPorNome,
		&dbRow.AtualizadaPorID, &dbRow.AtualizadaPorNome,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

// ListByOcorrencia devolve a linha do tempo da ocorrência, mais recente
// primeiro.
func (r *movimentacaoRepository) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.MovimentacaoDTO, error) {
	query := movimentacaoSelect + " WHERE m.ocorrencia_id = $1 AND m.deleted_at IS NULL ORDER BY m.created_at DESC"
	rows, err := r.storage.Query(ctx, query, ocorrenciaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movimentacoes := make([]dto.MovimentacaoDTO, 0)
	for rows.Next() {
		var dbRow dbMovimentacao
		if err := rows.Scan(&dbRow.ID, &dbRow.OcorrenciaID, &dbRow.Assunto, &dbRow.Descricao,
			&dbRow.CriadaPorID, &dbRow.CriadaPorNome,
			&dbRow.AtualizadaPorID, &dbRow.AtualizadaPorNome,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, err
		}
		movimentacoes = append(movimentacoes, dbRow.ToDTO())
	}
	return movimentacoes, rows.Err()
}

func (r *movimentacaoRepository) Find(ctx context.Context, id uint64) (*dto.MovimentacaoDTO, error) {
	query := movimentacaoSelect + " WHERE m.id = $1 AND m.deleted_at IS NULL"
	dbRow, err := scanMovimentacao(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *movimentacaoRepository) Create(ctx context.Context, ocorrenciaID uint64, payload dto.CreateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO movimentacoes (ocorrencia_id, assunto, descricao, created_by)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		ocorrenciaID, payload.Assunto, payload.Descricao, autorID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.NewHttpError(422, "Ocorrência informada não existe", apperrors.ErrNotFound, nil)
		}
		return nil, err
	}
	return r.Find(ctx, id)
}

func (r *movimentacaoRepository) Update(ctx context.Context, id uint64, payload dto.UpdateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error) {
	result, err := r.storage.Exec(ctx, `
		UPDATE movimentacoes
		SET assunto = $1, descricao = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL`,
		payload.Assunto, payload.Descricao, autorID, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.Find(ctx, id)
}

// SoftDelete preserva a linha com o autor da exclusão para auditoria.
func (r *movimentacaoRepository) SoftDelete(ctx context.Context, id uint64, autorID uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE movimentacoes SET deleted_at = NOW(), deleted_by = $1 WHERE id = $2 AND deleted_at IS NULL",
		autorID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
