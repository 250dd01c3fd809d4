package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
)

type AnaliseCriminalServiceInterface interface {
	Estatisticas(ctx context.Context, filtro repositories.FiltroAnalise) (*dto.EstatisticasDTO, error)
	PontosMapa(ctx context.Context, filtro repositories.FiltroAnalise) ([]dto.PontoMapaDTO, error)
	Relatorio(ctx context.Context, filtro repositories.FiltroAnalise) ([]dto.RelatorioItemDTO, error)
	RelatorioXLSX(ctx context.Context, filtro repositories.FiltroAnalise) ([]byte, string, error)
}

type AnaliseCriminalService struct {
	repo   repositories.AnaliseCriminalRepositoryInterface
	logger *zap.Logger
}

func NewAnaliseCriminalService(repo repositories.AnaliseCriminalRepositoryInterface, logger *zap.Logger) AnaliseCriminalServiceInterface {
	return &AnaliseCriminalService{repo: repo, logger: logger}
}

func (s *AnaliseCriminalService) Estatisticas(ctx context.Context, filtro repositories.FiltroAnalise) (*dto.EstatisticasDTO, error) {
	return s.repo.Estatisticas(ctx, filtro)
}

func (s *AnaliseCriminalService) PontosMapa(ctx context.Context, filtro repositories.FiltroAnalise) ([]dto.PontoMapaDTO, error) {
	return s.repo.PontosMapa(ctx, filtro)
}

func (s *AnaliseCriminalService) Relatorio(ctx context.Context, filtro repositories.FiltroAnalise) ([]dto.RelatorioItemDTO, error) {
	return s.repo.Relatorio(ctx, filtro)
}

var relatorioCabecalho = []string{"Nº Ocorrência", "Classificação", "Serviço Pericial", "Cidade", "Perito", "Status", "Registrada em", "Finalizada em"}

// RelatorioXLSX monta a planilha do relatório gerencial e devolve o
// conteúdo com o nome de arquivo sugerido.
func (s *AnaliseCriminalService) RelatorioXLSX(ctx context.Context, filtro repositories.FiltroAnalise) ([]byte, string, error) {
	itens, err := s.repo.Relatorio(ctx, filtro)
	if err != nil {
		return nil, "", err
	}
	if len(itens) == 0 {
		return nil, "", apperrors.NewHttpError(404, "Nenhuma ocorrência no recorte informado", apperrors.ErrNotFound, nil)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("não foi possível fechar a planilha", zap.Error(err))
		}
	}()

	const sheet = "Ocorrências"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("não foi possível remover a aba padrão", zap.Error(err))
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	for col, titulo := range relatorioCabecalho {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, titulo); err != nil {
			return nil, "", err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, "", err
		}
	}

	for linha, item := range itens {
		valores := []interface{}{
			item.Numero, item.Classificacao, item.Servico, item.Cidade,
			item.Perito, item.Status, item.CriadaEm, item.FinalizadaEm,
		}
		for col, valor := range valores {
			cell, err := excelize.CoordinatesToCellName(col+1, linha+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, valor); err != nil {
				return nil, "", err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "H", 24); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	nome := fmt.Sprintf("relatorio-ocorrencias-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), nome, nil
}
