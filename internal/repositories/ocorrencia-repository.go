package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type dbOcorrencia struct {
	ID                uint64
	Numero            string
	ClassificacaoID   uint64
	ClassificacaoNome string
	ServicoID         uint64
	ServicoNome       string
	PeritoID          sql.NullInt64
	PeritoNome        sql.NullString
	OcorrenciaExterna bool
	CidadeID          sql.NullInt64
	CidadeNome        sql.NullString
	BairroID          sql.NullInt64
	BairroNome        sql.NullString
	Endereco          sql.NullString
	Latitude          sql.NullFloat64
	Longitude         sql.NullFloat64
	ProcedimentoID    sql.NullInt64
	Historico         sql.NullString
	Status            string
	FinalizadaEm      sql.NullTime
	FinalizadaPorID   sql.NullInt64
	FinalizadaPorNome sql.NullString
	ReabertaEm        sql.NullTime
	ReabertaPorID     sql.NullInt64
	ReabertaPorNome   sql.NullString
	MotivoReabertura  sql.NullString
	CreatedAt         time.Time
	UpdatedAt         sql.NullTime
	DeletedAt         sql.NullTime
}

func nullShortUsuario(id sql.NullInt64, nome sql.NullString) *dto.ShortUsuarioDTO {
	if !id.Valid {
		return nil
	}
	return &dto.ShortUsuarioDTO{ID: uint64(id.Int64), NomeCompleto: utils.NullStringToString(nome)}
}

func nullDropdown(id sql.NullInt64, nome sql.NullString) *dto.DropdownItemDTO {
	if !id.Valid {
		return nil
	}
	return &dto.DropdownItemDTO{ID: uint64(id.Int64), Nome: utils.NullStringToString(nome)}
}

func (db *dbOcorrencia) ToDTO(exames []dto.DropdownItemDTO, procedimento *dto.ProcedimentoDTO) dto.OcorrenciaDTO {
	if exames == nil {
		exames = []dto.DropdownItemDTO{}
	}
	return dto.OcorrenciaDTO{
		ID:                db.ID,
		Numero:            db.Numero,
		Classificacao:     dto.DropdownItemDTO{ID: db.ClassificacaoID, Nome: db.ClassificacaoNome},
		ServicoPericial:   dto.DropdownItemDTO{ID: db.ServicoID, Nome: db.ServicoNome},
		Perito:            nullShortUsuario(db.PeritoID, db.PeritoNome),
		OcorrenciaExterna: db.OcorrenciaExterna,
		Cidade:            nullDropdown(db.CidadeID, db.CidadeNome),
		Bairro:            nullDropdown(db.BairroID, db.BairroNome),
		Endereco:          utils.NullStringToString(db.Endereco),
		Latitude:          utils.NullFloatToPtr(db.Latitude),
		Longitude:         utils.NullFloatToPtr(db.Longitude),
		Procedimento:      procedimento,
		Exames:            exames,
		Historico:         utils.NullStringToString(db.Historico),
		Status:            db.Status,
		FinalizadaEm:      utils.NullTimeToEmptyString(db.FinalizadaEm),
		FinalizadaPor:     nullShortUsuario(db.FinalizadaPorID, db.FinalizadaPorNome),
		ReabertaEm:        utils.NullTimeToEmptyString(db.ReabertaEm),
		ReabertaPor:       nullShortUsuario(db.ReabertaPorID, db.ReabertaPorNome),
		MotivoReabertura:  utils.NullStringToString(db.MotivoReabertura),
		CreatedAt:         db.CreatedAt.Local().Format(utils.TimeLayout),
		UpdatedAt:         utils.NullTimeToEmptyString(db.UpdatedAt),
		DeletedAt:         utils.NullTimeToEmptyString(db.DeletedAt),
	}
}

var ocorrenciaColumns = []string{
	"o.id", "o.numero",
	"o.classificacao_id", "cl.nome",
	"o.servico_pericial_id", "sp.nome",
	"o.perito_id", "per.nome_completo",
	"o.ocorrencia_externa",
	"o.cidade_id", "ci.nome",
	"o.bairro_id", "ba.nome",
	"o.endereco", "o.latitude", "o.longitude",
	"o.procedimento_cadastrado_id", "o.historico", "o.status",
	"o.finalizada_em", "o.finalizada_por", "fin.nome_completo",
	"o.reaberta_em", "o.reaberta_por", "rea.nome_completo",
	"o.motivo_reabertura",
	"o.created_at", "o.updated_at", "o.deleted_at",
}

func ocorrenciaBase() sq.SelectBuilder {
	return psql.Select(ocorrenciaColumns...).
		From("ocorrencias o").
		Join("classificacoes_ocorrencia cl ON cl.id = o.classificacao_id").
		Join("servicos_periciais sp ON sp.id = o.servico_pericial_id").
		LeftJoin("usuarios per ON per.id = o.perito_id").
		LeftJoin("usuarios fin ON fin.id = o.finalizada_por").
		LeftJoin("usuarios rea ON rea.id = o.reaberta_por").
		LeftJoin("cidades ci ON ci.id = o.cidade_id").
		LeftJoin("bairros ba ON ba.id = o.bairro_id")
}

func scanOcorrencia(row pgx.Row) (*dbOcorrencia, error) {
	var dbRow dbOcorrencia
	err := row.Scan(&dbRow.ID, &dbRow.Numero,
		&dbRow.ClassificacaoID, &dbRow.ClassificacaoNome,
		&dbRow.ServicoID, &dbRow.ServicoNome,
		&dbRow.PeritoID, &dbRow.PeritoNome,
		&dbRow.OcorrenciaExterna,
		&dbRow.CidadeID, &dbRow.CidadeNome,
		&dbRow.BairroID, &dbRow.BairroNome,
		&dbRow.Endereco, &dbRow.Latitude, &dbRow.Longitude,
		&dbRow.ProcedimentoID, &dbRow.Historico, &dbRow.Status,
		&dbRow.FinalizadaEm, &dbRow.FinalizadaPorID, &dbRow.FinalizadaPorNome,
		&dbRow.ReabertaEm, &dbRow.ReabertaPorID, &dbRow.ReabertaPorNome,
		&dbRow.MotivoReabertura,
		&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &dbRow, nil
}

// CreateOcorrenciaParams é o payload já validado pelo serviço, com o
// número sequencial e o autor resolvidos.
type CreateOcorrenciaParams struct {
	Numero            string
	ClassificacaoID   uint64
	ServicoPericialID uint64
	PeritoID          *uint64
	OcorrenciaExterna bool
	CidadeID          *uint64
	BairroID          *uint64
	Endereco          string
	Latitude          *float64
	Longitude         *float64
	ProcedimentoID    *uint64
	Historico         string
	CreatedBy         uint64
}

type OcorrenciaRepositoryInterface interface {
	List(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error)
	ListLixeira(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.OcorrenciaDTO, error)
	ProximoNumero(ctx context.Context, ano int) (uint64, error)
	Create(ctx context.Context, params CreateOcorrenciaParams, exameIDs []uint64) (uint64, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateOcorrenciaDTO) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Finalizar(ctx context.Context, id uint64, usuarioID uint64) error
	Reabrir(ctx context.Context, id uint64, usuarioID uint64, motivo string) error
	VincularProcedimento(ctx context.Context, id uint64, procedimentoID uint64) error
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type ocorrenciaRepository struct {
	storage          *pgxpool.Pool
	procedimentoRepo ProcedimentoRepositoryInterface
}

func NewOcorrenciaRepository(storage *pgxpool.Pool, procedimentoRepo ProcedimentoRepositoryInterface) OcorrenciaRepositoryInterface {
	return &ocorrenciaRepository{storage: storage, procedimentoRepo: procedimentoRepo}
}

func (r *ocorrenciaRepository) examesDaOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.DropdownItemDTO, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT e.id, e.nome FROM ocorrencia_exames oe
		JOIN exames e ON e.id = oe.exame_id
		WHERE oe.ocorrencia_id = $1
		ORDER BY e.nome`, ocorrenciaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exames := make([]dto.DropdownItemDTO, 0)
	for rows.Next() {
		var item dto.DropdownItemDTO
		if err := rows.Scan(&item.ID, &item.Nome); err != nil {
			return nil, err
		}
		exames = append(exames, item)
	}
	return exames, rows.Err()
}

// sortáveis por nome de coluna; qualquer outro valor cai no padrão.
var ocorrenciaSortColumns = map[string]string{
	"numero":     "o.numero",
	"status":     "o.status",
	"created_at": "o.created_at",
}

func (r *ocorrenciaRepository) applyFilters(builder sq.SelectBuilder, params utils.QueryParams, deleted bool) sq.SelectBuilder {
	if deleted {
		builder = builder.Where("o.deleted_at IS NOT NULL")
	} else {
		builder = builder.Where("o.deleted_at IS NULL")
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"o.numero": pattern},
			sq.ILike{"cl.nome": pattern},
			sq.ILike{"o.endereco": pattern},
		})
	}

	for key, value := range params.Filters {
		switch key {
		case "status":
			builder = builder.Where(sq.Eq{"o.status": value})
		case "servico_pericial_id":
			builder = builder.Where(sq.Eq{"o.servico_pericial_id": value})
		case "classificacao_id":
			builder = builder.Where(sq.Eq{"o.classificacao_id": value})
		case "perito_id":
			builder = builder.Where(sq.Eq{"o.perito_id": value})
		case "cidade_id":
			builder = builder.Where(sq.Eq{"o.cidade_id": value})
		case "externa":
			builder = builder.Where(sq.Eq{"o.ocorrencia_externa": value == "true"})
		case "criada_de":
			builder = builder.Where(sq.GtOrEq{"o.created_at": value})
		case "criada_ate":
			builder = builder.Where(sq.LtOrEq{"o.created_at": value + " 23:59:59"})
		}
	}
	return builder
}

func (r *ocorrenciaRepository) list(ctx context.Context, params utils.QueryParams, deleted bool) ([]dto.OcorrenciaDTO, uint64, error) {
	countBuilder := r.applyFilters(
		psql.Select("COUNT(*)").
			From("ocorrencias o").
			Join("classificacoes_ocorrencia cl ON cl.id = o.classificacao_id"),
		params, deleted)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.OcorrenciaDTO{}, 0, nil
	}

	sortColumn, ok := ocorrenciaSortColumns[params.SortBy]
	if !ok {
		sortColumn = "o.created_at"
	}
	order := "ASC"
	if params.SortOrder == "desc" {
		order = "DESC"
	}

	builder := r.applyFilters(ocorrenciaBase(), params, deleted).
		OrderBy(sortColumn + " " + order).
		Limit(params.Limit).
		Offset(params.Offset)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	dbRows := make([]dbOcorrencia, 0)
	for rows.Next() {
		var dbRow dbOcorrencia
		if err := rows.Scan(&dbRow.ID, &dbRow.Numero,
			&dbRow.ClassificacaoID, &dbRow.ClassificacaoNome,
			&dbRow.ServicoID, &dbRow.ServicoNome,
			&dbRow.PeritoID, &dbRow.PeritoNome,
			&dbRow.OcorrenciaExterna,
			&dbRow.CidadeID, &dbRow.CidadeNome,
			&dbRow.BairroID, &dbRow.BairroNome,
			&dbRow.Endereco, &dbRow.Latitude, &dbRow.Longitude,
			&dbRow.ProcedimentoID, &dbRow.Historico, &dbRow.Status,
			&dbRow.FinalizadaEm, &dbRow.FinalizadaPorID, &dbRow.FinalizadaPorNome,
			&dbRow.ReabertaEm, &dbRow.ReabertaPorID, &dbRow.ReabertaPorNome,
			&dbRow.MotivoReabertura,
			&dbRow.CreatedAt, &dbRow.UpdatedAt, &dbRow.DeletedAt); err != nil {
			rows.Close()
			return nil, 0, err
		}
		dbRows = append(dbRows, dbRow)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	ocorrencias := make([]dto.OcorrenciaDTO, 0, len(dbRows))
	for i := range dbRows {
		exames, err := r.examesDaOcorrencia(ctx, dbRows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		// Na listagem o procedimento completo não é carregado; o detalhe
		// vem pelo Find.
		ocorrencias = append(ocorrencias, dbRows[i].ToDTO(exames, nil))
	}
	return ocorrencias, total, nil
}

func (r *ocorrenciaRepository) List(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return r.list(ctx, params, false)
}

func (r *ocorrenciaRepository) ListLixeira(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return r.list(ctx, params, true)
}

func (r *ocorrenciaRepository) Find(ctx context.Context, id uint64) (*dto.OcorrenciaDTO, error) {
	query, args, err := ocorrenciaBase().Where(sq.Eq{"o.id": id}).Where("o.deleted_at IS NULL").ToSql()
	if err != nil {
		return nil, err
	}
	dbRow, err := scanOcorrencia(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	exames, err := r.examesDaOcorrencia(ctx, id)
	if err != nil {
		return nil, err
	}

	var procedimento *dto.ProcedimentoDTO
	if dbRow.ProcedimentoID.Valid {
		procedimento, err = r.procedimentoRepo.Find(ctx, uint64(dbRow.ProcedimentoID.Int64))
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	result := dbRow.ToDTO(exames, procedimento)
	return &result, nil
}

// ProximoNumero devolve o próximo sequencial do ano para compor o número
// da ocorrência (ex.: 000123/2026).
func (r *ocorrenciaRepository) ProximoNumero(ctx context.Context, ano int) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(*) FROM ocorrencias WHERE numero LIKE $1",
		fmt.Sprintf("%%/%d", ano)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

func (r *ocorrenciaRepository) Create(ctx context.Context, params CreateOcorrenciaParams, exameIDs []uint64) (uint64, error) {
	status := entities.OcorrenciaAguardandoPerito
	if params.PeritoID != nil {
		status = entities.OcorrenciaEmAnalise
	}

	var id uint64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO ocorrencias (numero, classificacao_id, servico_pericial_id, perito_id,
				ocorrencia_externa, cidade_id, bairro_id, endereco, latitude, longitude,
				procedimento_cadastrado_id, historico, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, NULLIF($12, ''), $13, $14)
			RETURNING id`,
			params.Numero, params.ClassificacaoID, params.ServicoPericialID, params.PeritoID,
			params.OcorrenciaExterna, params.CidadeID, params.BairroID, params.Endereco,
			params.Latitude, params.Longitude, params.ProcedimentoID, params.Historico,
			status, params.CreatedBy).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return apperrors.NewHttpError(409, "Já existe ocorrência com este número", apperrors.ErrConflict, nil)
				case "23503":
					return apperrors.NewHttpError(422, "Referência inválida no cadastro da ocorrência", apperrors.ErrNotFound, nil)
				}
			}
			return err
		}
		for _, exameID := range exameIDs {
			if _, err := tx.Exec(ctx,
				"INSERT INTO ocorrencia_exames (ocorrencia_id, exame_id) VALUES ($1, $2)", id, exameID); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23503" {
					return apperrors.NewHttpError(422, "Exame informado não existe", apperrors.ErrNotFound, nil)
				}
				return err
			}
		}
		return nil
	})
	return id, err
}

func (r *ocorrenciaRepository) Update(ctx context.Context, id uint64, payload dto.UpdateOcorrenciaDTO) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		builder := psql.Update("ocorrencias").
			Set("updated_at", sq.Expr("NOW()")).
			Where(sq.Eq{"id": id}).
			Where("deleted_at IS NULL")

		changed := false
		if payload.ClassificacaoID.Valid {
			builder = builder.Set("classificacao_id", payload.ClassificacaoID.Uint64)
			changed = true
		}
		if payload.PeritoID.Valid {
			builder = builder.Set("perito_id", payload.PeritoID.Uint64)
			changed = true
		}
		if payload.CidadeID.Valid {
			builder = builder.Set("cidade_id", payload.CidadeID.Uint64)
			changed = true
		}
		if payload.BairroID.Valid {
			builder = builder.Set("bairro_id", payload.BairroID.Uint64)
			changed = true
		}
		if payload.Endereco.Valid {
			builder = builder.Set("endereco", payload.Endereco.String)
			changed = true
		}
		if payload.Latitude.Valid {
			builder = builder.Set("latitude", payload.Latitude.Float64)
			changed = true
		}
		if payload.Longitude.Valid {
			builder = builder.Set("longitude", payload.Longitude.Float64)
			changed = true
		}
		if payload.Historico.Valid {
			builder = builder.Set("historico", payload.Historico.String)
			changed = true
		}

		if changed {
			query, args, err := builder.ToSql()
			if err != nil {
				return err
			}
			result, err := tx.Exec(ctx, query, args...)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23503" {
					return apperrors.NewHttpError(422, "Referência inválida na atualização da ocorrência", apperrors.ErrNotFound, nil)
				}
				return err
			}
			if result.RowsAffected() == 0 {
				return apperrors.ErrNotFound
			}
		}

		if payload.ExameIDs != nil {
			if _, err := tx.Exec(ctx, "DELETE FROM ocorrencia_exames WHERE ocorrencia_id = $1", id); err != nil {
				return err
			}
			for _, exameID := range payload.ExameIDs {
				if _, err := tx.Exec(ctx,
					"INSERT INTO ocorrencia_exames (ocorrencia_id, exame_id) VALUES ($1, $2)", id, exameID); err != nil {
					var pgErr *pgconn.PgError
					if errors.As(err, &pgErr) && pgErr.Code == "23503" {
						return apperrors.NewHttpError(422, "Exame informado não existe", apperrors.ErrNotFound, nil)
					}
					return err
				}
			}
		}
		return nil
	})
}

func (r *ocorrenciaRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE ocorrencias SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL", status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ocorrenciaRepository) Finalizar(ctx context.Context, id uint64, usuarioID uint64) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE ocorrencias
		SET status = $1, finalizada_em = NOW(), finalizada_por = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL`,
		entities.OcorrenciaFinalizada, usuarioID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ocorrenciaRepository) Reabrir(ctx context.Context, id uint64, usuarioID uint64, motivo string) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE ocorrencias
		SET status = $1, reaberta_em = NOW(), reaberta_por = $2, motivo_reabertura = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL`,
		entities.OcorrenciaEmAnalise, usuarioID, motivo, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ocorrenciaRepository) VincularProcedimento(ctx context.Context, id uint64, procedimentoID uint64) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE ocorrencias SET procedimento_cadastrado_id = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL`, procedimentoID, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewHttpError(422, "Procedimento informado não existe", apperrors.ErrNotFound, nil)
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ocorrenciaRepository) SoftDelete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE ocorrencias SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ocorrenciaRepository) Restore(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE ocorrencias SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
