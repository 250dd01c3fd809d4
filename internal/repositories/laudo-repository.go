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

type dbLaudo struct {
	ID            uint64
	OcorrenciaID  uint64
	SessaoID      sql.NullString
	Conteudo      string
	GeradoPorID   uint64
	GeradoPorNome string
	CreatedAt     time.Time
}

func (db *dbLaudo) ToDTO() dto.LaudoDTO {
	return dto.LaudoDTO{
		ID:           db.ID,
		OcorrenciaID: db.OcorrenciaID,
		SessaoID:     utils.NullStringToString(db.SessaoID),
		Conteudo:     db.Conteudo,
		GeradoPor:    dto.ShortUsuarioDTO{ID: db.GeradoPorID, NomeCompleto: db.GeradoPorNome},
		CreatedAt:    db.CreatedAt.Local().Format(utils.TimeLayout),
	}
}

const laudoSelect = `
	SELECT l.id, l.ocorrencia_id, l.sessao_id, l.conteudo,
	       l.gerado_por, u.nome_completo, l.created_at
	FROM laudos l
	JOIN usuarios u ON u.id = l.gerado_por`

type LaudoRepositoryInterface interface {
	Find(ctx context.Context, id uint64) (*dto.LaudoDTO, error)
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.LaudoDTO, error)
	Create(ctx context.Context, ocorrenciaID uint64, sessaoID, conteudo string, geradoPor uint64) (*dto.LaudoDTO, error)
}

type laudoRepository struct{ storage *pgxpool.Pool }

func NewLaudoRepository(storage *pgxpool.Pool) LaudoRepositoryInterface {
	return &laudoRepository{storage: storage}
}

func (r *laudoRepository) Find(ctx context.Context, id uint64) (*dto.LaudoDTO, error) {
	var dbRow dbLaudo
	err := r.storage.QueryRow(ctx, laudoSelect+" WHERE l.id = $1", id).
		Scan(&dbRow.ID, &dbRow.OcorrenciaID, &dbRow.SessaoID, &dbRow.Conteudo,
			&dbRow.GeradoPorID, &dbRow.GeradoPorNome, &dbRow.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	result := dbRow.ToDTO()
	return &result, nil
}

func (r *laudoRepository) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.LaudoDTO, error) {
	rows, err := r.storage.Query(ctx,
		laudoSelect+" WHERE l.ocorrencia_id = $1 ORDER BY l.created_at DESC", ocorrenciaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	laudos := make([]dto.LaudoDTO, 0)
	for rows.Next() {
		var dbRow dbLaudo
		if err := rows.Scan(&dbRow.ID, &dbRow.OcorrenciaID, &dbRow.SessaoID, &dbRow.Conteudo,
			&dbRow.GeradoPorID, &dbRow.GeradoPorNome, &dbRow.CreatedAt); err != nil {
			return nil, err
		}
		laudos = append(laudos, dbRow.ToDTO())
	}
	return laudos, rows.Err()
}

func (r *laudoRepository) Create(ctx context.Context, ocorrenciaID uint64, sessaoID, conteudo string, geradoPor uint64) (*dto.LaudoDTO, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO laudos (ocorrencia_id, sessao_id, conteudo, gerado_por)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4) RETURNING id`,
		ocorrenciaID, sessaoID, conteudo, geradoPor).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, apperrors.NewHttpError(422, "Ocorrência informada não existe", apperrors.ErrNotFound, nil)
		}
		return nil, err
	}
	return r.Find(ctx, id)
}
