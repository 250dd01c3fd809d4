package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

type dbOrdemServico struct {
	ID                    uint64
	Numero                string
	OcorrenciaID          uint64
	OcorrenciaNumero      string
	UnidadeDemandanteID   sql.NullInt64
	UnidadeDemandanteNome sql.NullString
	AutoridadeID          sql.NullInt64
	AutoridadeNome        sql.NullString
	PeritoID              uint64
	PeritoNome            string
	PrazoDias             int
	EmitidaEm             time.Time
	CienciaEm             sql.NullTime
	ConcluidaEm           sql.NullTime
	Status                string
	JustificativaAtraso   sql.NullString
	CreatedAt             time.Time
	UpdatedAt             sql.NullTime
	DeletedAt             sql.NullTime
}

// ToDTO projeta a linha com a contagem de prazo do momento da consulta.
func (db *dbOrdemServico) ToDTO(agora time.Time) dto.OrdemServicoDTO {
	result := dto.OrdemServicoDTO{
		ID:                  db.ID,
		Numero:              db.Numero,
		OcorrenciaID:        db.OcorrenciaID,
		OcorrenciaNumero:    db.OcorrenciaNumero,
		UnidadeDemandante:   nullDropdown(db.UnidadeDemandanteID, db.UnidadeDemandanteNome),
		Autoridade:          nullDropdown(db.AutoridadeID, db.AutoridadeNome),
		Perito:              dto.ShortUsuarioDTO{ID: db.PeritoID, NomeCompleto: db.PeritoNome},
		PrazoDias:           db.PrazoDias,
		EmitidaEm:           db.EmitidaEm.Local().Format(utils.TimeLayout),
		CienciaEm:           utils.NullTimeToEmptyString(db.CienciaEm),
		ConcluidaEm:         utils.NullTimeToEmptyString(db.ConcluidaEm),
		Status:              db.Status,
		JustificativaAtraso: utils.NullStringToString(db.JustificativaAtraso),
		CreatedAt:           db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt:           utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt:           utils.NullTimeToEmptyString(db.DeletedAt),
	}
	if db.CienciaEm.Valid && db.Status != entities.OSConcluida {
		dias := entities.DiasRestantesOS(db.CienciaEm.Time, db.PrazoDias, agora)
		result.DiasRestantes = &dias
		result.Urgencia = entities.UrgenciaOS(dias)
	}
	result.Status = entities.StatusEfetivoOS(result.Status, result.DiasRestantes)
	return result
}

var ordemServicoColumns = []string{
	"os.id", "os.numero",
	"os.ocorrencia_id", "o.numero",
	"os.unidade_demandante_id", "ud.nome",
	"os.autoridade_id", "a.nome",
	"os.perito_id", "per.nome_completo",
	"os.prazo_dias", "os.emitida_em", "os.ciencia_em", "os.concluida_em",
	"os.status", "os.justificativa_atraso",
	"os.created_at", "os.updated_at", "os.deleted_at",
}

func ordemServicoBase() sq.SelectBuilder {
	return psql.Select(ordemServicoColumns...).
		From("ordens_servico os").
		Join("ocorrencias o ON o.id = os.ocorrencia_id").
		Join("usuarios per ON per.id = os.perito_id").
		LeftJoin("unidades_demandantes ud ON ud.id = os.unidade_demandante_id").
		LeftJoin("autoridades a ON a.id = os.autoridade_id")
}

func scanOrdemServico(row pgx.Row) (*dbOrdemServico, error) {
	var dbRow dbOrdemServico
	err := row.Scan(&dbRow.ID, &dbRow.Numero,
		&dbRow.OcorrenciaID, &dbRow.OcorrenciaNumero,
		&dbRow.UnidadeDemandanteID, &dbRow.UnidadeDemandanteNome,
		&dbRow.AutoridadeID, &dbRow.AutoridadeNome,
		&dbRow.PeritoID, &dbRow.PeritoNome,
		&dbRow.PrazoDias, &dbRow.EmitidaEm, &dbRow.CienciaEm, &dbRow.ConcluidaEm,
		&dbRow.Status, &dbRow.JustificativaAtraso,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

type CreateOrdemServicoParams struct {
	Numero              string
	OcorrenciaID        uint64
	PeritoID            uint64
	PrazoDias           int
	UnidadeDemandanteID *uint64
	AutoridadeID        *uint64
	CreatedBy           uint64
}

type OrdemServicoRepositoryInterface interface {
	List(ctx context.Context, params utils.QueryParams) ([]dto.OrdemServicoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.OrdemServicoDTO, error)
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.OrdemServicoDTO, error)
	PendentesCiencia(ctx context.Context, peritoID uint64) ([]dto.OrdemServicoDTO, error)
	ProximoNumero(ctx context.Context, ano int) (uint64, error)
	Create(ctx context.Context, params CreateOrdemServicoParams) (uint64, error)
	RegistrarCiencia(ctx context.Context, id uint64, peritoID uint64) error
	Iniciar(ctx context.Context, id uint64, peritoID uint64) error
	Concluir(ctx context.Context, id uint64, peritoID uint64) error
	JustificarAtraso(ctx context.Context, id uint64, peritoID uint64, justificativa string) error
	ExisteAbertaParaOcorrencia(ctx context.Context, ocorrenciaID uint64) (bool, error)
}

type ordemServicoRepository struct{ storage *pgxpool.Pool }

func NewOrdemServicoRepository(storage *pgxpool.Pool) OrdemServicoRepositoryInterface {
	return &ordemServicoRepository{storage: storage}
}

var ordemServicoSortColumns = map[string]string{
	"numero":     "os.numero",
	"status":     "os.status",
	"emitida_em": "os.emitida_em",
	"created_at": "os.created_at",
}

func (r *ordemServicoRepository) applyFilters(builder sq.SelectBuilder, params utils.QueryParams) sq.SelectBuilder {
	builder = builder.Where("os.deleted_at IS NULL")

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"os.numero": pattern},
			sq.ILike{"o.numero": pattern},
			sq.ILike{"per.nome_completo": pattern},
		})
	}
	for key, value := range params.Filters {
		switch key {
		case "status":
			// VENCIDA é derivado, o filtro pega as OS ativas com prazo
			// estourado.
			if value == entities.OSVencida {
				builder = builder.Where(sq.Eq{"os.status": []string{entities.OSAberta, entities.OSEmAndamento}}).
					Where("os.ciencia_em IS NOT NULL").
					Where("os.ciencia_em + make_interval(days => os.prazo_dias) < NOW()")
			} else {
				builder = builder.Where(sq.Eq{"os.status": value})
			}
		case "perito_id":
			builder = builder.Where(sq.Eq{"os.perito_id": value})
		case "ocorrencia_id":
			builder = builder.Where(sq.Eq{"os.ocorrencia_id": value})
		}
	}
	return builder
}

func (r *ordemServicoRepository) queryMany(ctx context.Context, builder sq.SelectBuilder) ([]dto.OrdemServicoDTO, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agora := time.Now()
	ordens := make([]dto.OrdemServicoDTO, 0)
	for rows.Next() {
		var dbRow dbOrdemServico
		if err := rows.Scan(&dbRow.ID, &dbRow.Numero,
			&dbRow.OcorrenciaID, &dbRow.OcorrenciaNumero,
			&dbRow.UnidadeDemandanteID, &dbRow.UnidadeDemandanteNome,
			&dbRow.AutoridadeID, &dbRow.AutoridadeNome,
			&dbRow.PeritoID, &dbRow.PeritoNome,
			&dbRow.PrazoDias, &dbRow.EmitidaEm, &dbRow.CienciaEm, &dbRow.ConcluidaEm,
			&dbRow.Status, &dbRow.JustificativaAtraso,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			return nil, err
		}
		ordens = append(ordens, dbRow.ToDTO(agora))
	}
	return ordens, rows.Err()
}

func (r *ordemServicoRepository) List(ctx context.Context, params utils.QueryParams) ([]dto.OrdemServicoDTO, uint64, error) {
	countBuilder := r.applyFilters(
		psql.Select("COUNT(*)").
			From("ordens_servico os").
			Join("ocorrencias o ON o.id = os.ocorrencia_id").
			Join("usuarios per ON per.id = os.perito_id"),
		params)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.OrdemServicoDTO{}, 0, nil
	}

	sortColumn, ok := ordemServicoSortColumns[params.SortBy]
	if !ok {
		sortColumn = "os.created_at"
	}
	order := "ASC"
	if params.SortOrder == "desc" {
		order = "DESC"
	}

	ordens, err := r.queryMany(ctx, r.applyFilters(ordemServicoBase(), params).
		OrderBy(sortColumn+" "+order).
		Limit(params.Limit).
		Offset(params.Offset))
	if err != nil {
		return nil, 0, err
	}
	return ordens, total, nil
}

func (r *ordemServicoRepository) Find(ctx context.Context, id uint64) (*dto.OrdemServicoDTO, error) {
	query, args, err := ordemServicoBase().Where(sq.Eq{"os.id": id}).Where("os.deleted_at IS NULL").ToSql()
	if err != nil {
		return nil, err
	}
	dbRow, err := scanOrdemServico(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	result := dbRow.ToDTO(time.Now())
	return &result, nil
}

func (r *ordemServicoRepository) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.OrdemServicoDTO, error) {
	return r.queryMany(ctx, ordemServicoBase().
		Where(sq.Eq{"os.ocorrencia_id": ocorrenciaID}).
		Where("os.deleted_at IS NULL").
		OrderBy("os.emitida_em DESC"))
}

// PendentesCiencia alimenta o aviso exibido ao perito após o login.
func (r *ordemServicoRepository) PendentesCiencia(ctx context.Context, peritoID uint64) ([]dto.OrdemServicoDTO, error) {
	return r.queryMany(ctx, ordemServicoBase().
		Where(sq.Eq{"os.perito_id": peritoID}).
		Where(sq.Eq{"os.status": entities.OSAguardandoCiencia}).
		Where("os.deleted_at IS NULL").
		OrderBy("os.emitida_em ASC"))
}

func (r *ordemServicoRepository) ProximoNumero(ctx context.Context, ano int) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(*) FROM ordens_servico WHERE EXTRACT(YEAR FROM emitida_em) = $1", ano).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

func (r *ordemServicoRepository) Create(ctx context.Context, params CreateOrdemServicoParams) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO ordens_servico (numero, ocorrencia_id, perito_id, prazo_dias,
			unidade_demandante_id, autoridade_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		params.Numero, params.OcorrenciaID, params.PeritoID, params.PrazoDias,
		params.UnidadeDemandanteID, params.AutoridadeID, params.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, apperrors.NewHttpError(409, "Já existe ordem de serviço com este número", apperrors.ErrConflict, nil)
			case "23503":
				return 0, apperrors.NewHttpError(422, "Referência inválida na emissão da ordem de serviço", apperrors.ErrNotFound, nil)
			}
		}
		return 0, err
	}
	return id, nil
}

// transicao muda o estado da OS garantindo que apenas o perito designado
// execute e que o estado de origem confere.
func (r *ordemServicoRepository) transicao(ctx context.Context, id, peritoID uint64, query string, args ...interface{}) error {
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Distingue inexistente de transição inválida para responder 409
		// em vez de 404 quando a OS existe em outro estado.
		var status string
		var donoID uint64
		err := r.storage.QueryRow(ctx,
			"SELECT status, perito_id FROM ordens_servico WHERE id = $1 AND deleted_at IS NULL", id).
			Scan(&status, &donoID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		if donoID != peritoID {
			return apperrors.ErrForbidden
		}
		return apperrors.NewHttpError(409, "Transição de estado inválida para a ordem de serviço", apperrors.ErrConflict, nil)
	}
	return nil
}

func (r *ordemServicoRepository) RegistrarCiencia(ctx context.Context, id uint64, peritoID uint64) error {
	return r.transicao(ctx, id, peritoID, `
		UPDATE ordens_servico
		SET status = $1, ciencia_em = NOW(), updated_at = NOW()
		WHERE id = $2 AND perito_id = $3 AND status = $4 AND deleted_at IS NULL`,
		entities.OSAberta, id, peritoID, entities.OSAguardandoCiencia)
}

func (r *ordemServicoRepository) Iniciar(ctx context.Context, id uint64, peritoID uint64) error {
	return r.transicao(ctx, id, peritoID, `
		UPDATE ordens_servico
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND perito_id = $3 AND status = $4 AND deleted_at IS NULL`,
		entities.OSEmAndamento, id, peritoID, entities.OSAberta)
}

func (r *ordemServicoRepository) Concluir(ctx context.Context, id uint64, peritoID uint64) error {
	return r.transicao(ctx, id, peritoID, `
		UPDATE ordens_servico
		SET status = $1, concluida_em = NOW(), updated_at = NOW()
		WHERE id = $2 AND perito_id = $3 AND status IN ($4, $5) AND deleted_at IS NULL`,
		entities.OSConcluida, id, peritoID, entities.OSAberta, entities.OSEmAndamento)
}

func (r *ordemServicoRepository) JustificarAtraso(ctx context.Context, id uint64, peritoID uint64, justificativa string) error {
	return r.transicao(ctx, id, peritoID, `
		UPDATE ordens_servico
		SET justificativa_atraso = $1, updated_at = NOW()
		WHERE id = $2 AND perito_id = $3 AND status IN ($4, $5) AND deleted_at IS NULL`,
		justificativa, id, peritoID, entities.OSAberta, entities.OSEmAndamento)
}

func (r *ordemServicoRepository) ExisteAbertaParaOcorrencia(ctx context.Context, ocorrenciaID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ordens_servico
			WHERE ocorrencia_id = $1 AND status <> $2 AND deleted_at IS NULL)`,
		ocorrenciaID, entities.OSConcluida).Scan(&exists)
	return exists, err
}
