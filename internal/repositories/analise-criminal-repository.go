package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
)

// FiltroAnalise delimita o recorte das agregações do dashboard. Campos
// zerados não filtram.
type FiltroAnalise struct {
	ServicoPericialID uint64
	ClassificacaoID   uint64
	CidadeID          uint64
	De                time.Time
	Ate               time.Time
}

type AnaliseCriminalRepositoryInterface interface {
	Estatisticas(ctx context.Context, filtro FiltroAnalise) (*dto.EstatisticasDTO, error)
	PontosMapa(ctx context.Context, filtro FiltroAnalise) ([]dto.PontoMapaDTO, error)
	Relatorio(ctx context.Context, filtro FiltroAnalise) ([]dto.RelatorioItemDTO, error)
}

type analiseCriminalRepository struct{ storage *pgxpool.Pool }

func NewAnaliseCriminalRepository(storage *pgxpool.Pool) AnaliseCriminalRepositoryInterface {
	return &analiseCriminalRepository{storage: storage}
}

func aplicarFiltroAnalise(builder sq.SelectBuilder, filtro FiltroAnalise) sq.SelectBuilder {
	builder = builder.Where("o.deleted_at IS NULL")
	if filtro.ServicoPericialID > 0 {
		builder = builder.Where(sq.Eq{"o.servico_pericial_id": filtro.ServicoPericialID})
	}
	if filtro.ClassificacaoID > 0 {
		builder = builder.Where(sq.Eq{"o.classificacao_id": filtro.ClassificacaoID})
	}
	if filtro.CidadeID > 0 {
		builder = builder.Where(sq.Eq{"o.cidade_id": filtro.CidadeID})
	}
	if !filtro.De.IsZero() {
		builder = builder.Where(sq.GtOrEq{"o.created_at": filtro.De})
	}
	if !filtro.Ate.IsZero() {
		builder = builder.Where(sq.Lt{"o.created_at": filtro.Ate.AddDate(0, 0, 1)})
	}
	return builder
}

func (r *analiseCriminalRepository) contagens(ctx context.Context, builder sq.SelectBuilder) ([]dto.ContagemDTO, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contagens := make([]dto.ContagemDTO, 0)
	for rows.Next() {
		var item dto.ContagemDTO
		if err := rows.Scan(&item.Rotulo, &item.Total); err != nil {
			return nil, err
		}
		contagens = append(contagens, item)
	}
	return contagens, rows.Err()
}

func (r *analiseCriminalRepository) Estatisticas(ctx context.Context, filtro FiltroAnalise) (*dto.EstatisticasDTO, error) {
	stats := &dto.EstatisticasDTO{}

	totalQuery, totalArgs, err := aplicarFiltroAnalise(
		psql.Select("COUNT(*)").From("ocorrencias o"), filtro).ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.storage.QueryRow(ctx, totalQuery, totalArgs...).Scan(&stats.TotalOcorrencias); err != nil {
		return nil, err
	}

	stats.PorStatus, err = r.contagens(ctx, aplicarFiltroAnalise(
		psql.Select("o.status", "COUNT(*)").From("ocorrencias o"), filtro).
		GroupBy("o.status").OrderBy("COUNT(*) DESC"))
	if err != nil {
		return nil, err
	}

	stats.PorClassificacao, err = r.contagens(ctx, aplicarFiltroAnalise(
		psql.Select("cl.nome", "COUNT(*)").
			From("ocorrencias o").
			Join("classificacoes_ocorrencia cl ON cl.id = o.classificacao_id"), filtro).
		GroupBy("cl.nome").OrderBy("COUNT(*) DESC").Limit(10))
	if err != nil {
		return nil, err
	}

	stats.PorCidade, err = r.contagens(ctx, aplicarFiltroAnalise(
		psql.Select("ci.nome", "COUNT(*)").
			From("ocorrencias o").
			Join("cidades ci ON ci.id = o.cidade_id"), filtro).
		GroupBy("ci.nome").OrderBy("COUNT(*) DESC").Limit(10))
	if err != nil {
		return nil, err
	}

	serieQuery, serieArgs, err := aplicarFiltroAnalise(
		psql.Select("TO_CHAR(o.created_at, 'YYYY-MM') AS mes", "COUNT(*)").
			From("ocorrencias o"), filtro).
		GroupBy("mes").OrderBy("mes").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, serieQuery, serieArgs...)
	if err != nil {
		return nil, err
	}
	stats.SerieMensal = make([]dto.SerieMensalDTO, 0)
	for rows.Next() {
		var item dto.SerieMensalDTO
		if err := rows.Scan(&item.Mes, &item.Total); err != nil {
			rows.Close()
			return nil, err
		}
		stats.SerieMensal = append(stats.SerieMensal, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.storage.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE ciencia_em IS NOT NULL
				AND ciencia_em + make_interval(days => prazo_dias) < NOW()),
			COUNT(*)
		FROM ordens_servico
		WHERE status IN ($1, $2) AND deleted_at IS NULL`,
		entities.OSAberta, entities.OSEmAndamento).Scan(&stats.OSVencidas, &stats.OSAbertas)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// PontosMapa descarta coordenadas nulas ou zeradas; ponto (0,0) é lixo de
// digitação, não localização válida.
func (r *analiseCriminalRepository) PontosMapa(ctx context.Context, filtro FiltroAnalise) ([]dto.PontoMapaDTO, error) {
	builder := aplicarFiltroAnalise(
		psql.Select("o.id", "o.numero", "o.latitude", "o.longitude", "cl.nome", "o.status").
			From("ocorrencias o").
			Join("classificacoes_ocorrencia cl ON cl.id = o.classificacao_id"), filtro).
		Where("o.latitude IS NOT NULL").
		Where("o.longitude IS NOT NULL").
		Where("NOT (o.latitude = 0 AND o.longitude = 0)")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pontos := make([]dto.PontoMapaDTO, 0)
	for rows.Next() {
		var ponto dto.PontoMapaDTO
		if err := rows.Scan(&ponto.OcorrenciaID, &ponto.Numero, &ponto.Latitude, &ponto.Longitude,
			&ponto.Classificacao, &ponto.Status); err != nil {
			return nil, err
		}
		pontos = append(pontos, ponto)
	}
	return pontos, rows.Err()
}

func (r *analiseCriminalRepository) Relatorio(ctx context.Context, filtro FiltroAnalise) ([]dto.RelatorioItemDTO, error) {
	builder := aplicarFiltroAnalise(
		psql.Select("o.id", "o.numero", "cl.nome", "sp.nome",
			"COALESCE(ci.nome, '')", "COALESCE(per.nome_completo, '')",
			"o.status", "o.created_at", "o.finalizada_em").
			From("ocorrencias o").
			Join("classificacoes_ocorrencia cl ON cl.id = o.classificacao_id").
			Join("servicos_periciais sp ON sp.id = o.servico_pericial_id").
			LeftJoin("cidades ci ON ci.id = o.cidade_id").
			LeftJoin("usuarios per ON per.id = o.perito_id"), filtro).
		OrderBy("o.created_at")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itens := make([]dto.RelatorioItemDTO, 0)
	for rows.Next() {
		var (
			item         dto.RelatorioItemDTO
			criadaEm     time.Time
			finalizadaEm *time.Time
		)
		if err := rows.Scan(&item.OcorrenciaID, &item.Numero, &item.Classificacao, &item.Servico,
			&item.Cidade, &item.Perito, &item.Status, &criadaEm, &finalizadaEm); err != nil {
			return nil, err
		}
		item.CriadaEm = criadaEm.Local().Format("2006-01-02")
		if finalizadaEm != nil {
			item.FinalizadaEm = finalizadaEm.Local().Format("2006-01-02")
		}
		itens = append(itens, item)
	}
	return itens, rows.Err()
}
