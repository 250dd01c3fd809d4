package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/customvalidator"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

type OcorrenciaServiceInterface interface {
	List(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error)
	ListLixeira(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.OcorrenciaDTO, error)
	Create(ctx context.Context, payload dto.CreateOcorrenciaDTO, criadorID uint64) (*dto.OcorrenciaDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateOcorrenciaDTO) (*dto.OcorrenciaDTO, error)
	Finalizar(ctx context.Context, id uint64, usuarioID uint64, payload dto.FinalizarOcorrenciaDTO) error
	Reabrir(ctx context.Context, id uint64, usuarioID uint64, payload dto.ReabrirOcorrenciaDTO) error
	VincularProcedimento(ctx context.Context, id uint64, payload dto.VincularProcedimentoDTO) error
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type OcorrenciaService struct {
	repo              repositories.OcorrenciaRepositoryInterface
	classificacaoRepo repositories.ClassificacaoRepositoryInterface
	bairroRepo        repositories.BairroRepositoryInterface
	osRepo            repositories.OrdemServicoRepositoryInterface
	authService       AuthServiceInterface
	logger            *zap.Logger
}

func NewOcorrenciaService(
	repo repositories.OcorrenciaRepositoryInterface,
	classificacaoRepo repositories.ClassificacaoRepositoryInterface,
	bairroRepo repositories.BairroRepositoryInterface,
	osRepo repositories.OrdemServicoRepositoryInterface,
	authService AuthServiceInterface,
	logger *zap.Logger,
) OcorrenciaServiceInterface {
	return &OcorrenciaService{
		repo:              repo,
		classificacaoRepo: classificacaoRepo,
		bairroRepo:        bairroRepo,
		osRepo:            osRepo,
		authService:       authService,
		logger:            logger,
	}
}

func (s *OcorrenciaService) List(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return s.repo.List(ctx, params)
}

func (s *OcorrenciaService) ListLixeira(ctx context.Context, params utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, params)
}

func (s *OcorrenciaService) Find(ctx context.Context, id uint64) (*dto.OcorrenciaDTO, error) {
	return s.repo.Find(ctx, id)
}

// validarLocal aplica os dois modos de localização: ocorrência externa
// carrega coordenadas dentro da janela regional; ocorrência convencional
// carrega cidade, bairro e endereço.
func (s *OcorrenciaService) validarLocal(ctx context.Context, payload dto.CreateOcorrenciaDTO) error {
	if payload.OcorrenciaExterna {
		if payload.Latitude == nil || payload.Longitude == nil {
			return apperrors.NewHttpError(422, "Ocorrência externa exige latitude e longitude", apperrors.ErrBadRequest, nil)
		}
		if *payload.Latitude < customvalidator.LatitudeMin || *payload.Latitude > customvalidator.LatitudeMax ||
			*payload.Longitude < customvalidator.LongitudeMin || *payload.Longitude > customvalidator.LongitudeMax {
			return apperrors.NewHttpError(422, "Coordenadas fora da área de atuação", apperrors.ErrBadRequest, nil)
		}
		return nil
	}

	if payload.CidadeID == nil || payload.BairroID == nil || payload.Endereco == "" {
		return apperrors.NewHttpError(422, "Ocorrência convencional exige cidade, bairro e endereço", apperrors.ErrBadRequest, nil)
	}
	bairro, err := s.bairroRepo.Find(ctx, *payload.BairroID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return apperrors.NewHttpError(422, "Bairro informado não existe", apperrors.ErrNotFound, nil)
		}
		return err
	}
	if bairro.Cidade.ID != *payload.CidadeID {
		return apperrors.NewHttpError(422, "Bairro não pertence à cidade informada", apperrors.ErrBadRequest, nil)
	}
	return nil
}

func (s *OcorrenciaService) Create(ctx context.Context, payload dto.CreateOcorrenciaDTO, criadorID uint64) (*dto.OcorrenciaDTO, error) {
	classificacao, err := s.classificacaoRepo.Find(ctx, payload.ClassificacaoID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewHttpError(422, "Classificação informada não existe", apperrors.ErrNotFound, nil)
		}
		return nil, err
	}
	if classificacao.ServicoPericialID != payload.ServicoPericialID {
		return nil, apperrors.NewHttpError(422, "Classificação não pertence ao serviço pericial informado", apperrors.ErrBadRequest, nil)
	}

	if err := s.validarLocal(ctx, payload); err != nil {
		return nil, err
	}

	ano := time.Now().Year()

	// Registros concorrentes podem disputar o mesmo sequencial; a
	// constraint de unicidade detecta e a numeração é recalculada.
	var id uint64
	var numero string
	for tentativa := 0; ; tentativa++ {
		sequencial, err := s.repo.ProximoNumero(ctx, ano)
		if err != nil {
			return nil, err
		}
		numero = fmt.Sprintf("%06d/%d", sequencial, ano)

		params := repositories.CreateOcorrenciaParams{
			Numero:            numero,
			ClassificacaoID:   payload.ClassificacaoID,
			ServicoPericialID: payload.ServicoPericialID,
			PeritoID:          payload.PeritoID,
			OcorrenciaExterna: payload.OcorrenciaExterna,
			CidadeID:          payload.CidadeID,
			BairroID:          payload.BairroID,
			Endereco:          payload.Endereco,
			Latitude:          payload.Latitude,
			Longitude:         payload.Longitude,
			ProcedimentoID:    payload.ProcedimentoID,
			Historico:         payload.Historico,
			CreatedBy:         criadorID,
		}

		id, err = s.repo.Create(ctx, params, payload.ExameIDs)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) && tentativa < 2 {
				continue
			}
			return nil, err
		}
		break
	}
	s.logger.Info("ocorrência registrada", zap.Uint64("id", id), zap.String("numero", numero))
	return s.repo.Find(ctx, id)
}

func (s *OcorrenciaService) Update(ctx context.Context, id uint64, payload dto.UpdateOcorrenciaDTO) (*dto.OcorrenciaDTO, error) {
	atual, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if atual.Status == entities.OcorrenciaFinalizada {
		return nil, apperrors.NewHttpError(409, "Ocorrência finalizada não pode ser editada; reabra antes", apperrors.ErrConflict, nil)
	}

	if payload.ClassificacaoID.Valid {
		classificacao, err := s.classificacaoRepo.Find(ctx, payload.ClassificacaoID.Uint64)
		if err != nil {
			if err == apperrors.ErrNotFound {
				return nil, apperrors.NewHttpError(422, "Classificação informada não existe", apperrors.ErrNotFound, nil)
			}
			return nil, err
		}
		if classificacao.ServicoPericialID != atual.ServicoPericial.ID {
			return nil, apperrors.NewHttpError(422, "Classificação não pertence ao serviço pericial da ocorrência", apperrors.ErrBadRequest, nil)
		}
	}

	if payload.Latitude.Valid || payload.Longitude.Valid {
		lat := payload.Latitude.Float64
		lon := payload.Longitude.Float64
		if !payload.Latitude.Valid && atual.Latitude != nil {
			lat = *atual.Latitude
		}
		if !payload.Longitude.Valid && atual.Longitude != nil {
			lon = *atual.Longitude
		}
		if lat < customvalidator.LatitudeMin || lat > customvalidator.LatitudeMax ||
			lon < customvalidator.LongitudeMin || lon > customvalidator.LongitudeMax {
			return nil, apperrors.NewHttpError(422, "Coordenadas fora da área de atuação", apperrors.ErrBadRequest, nil)
		}
	}

	if err := s.repo.Update(ctx, id, payload); err != nil {
		return nil, err
	}

	// A designação do primeiro perito tira a ocorrência da fila de espera.
	if payload.PeritoID.Valid && atual.Status == entities.OcorrenciaAguardandoPerito {
		if err := s.repo.UpdateStatus(ctx, id, entities.OcorrenciaEmAnalise); err != nil {
			return nil, err
		}
	}

	return s.repo.Find(ctx, id)
}

// Finalizar exige confirmação de senha e que não haja OS em aberto.
func (s *OcorrenciaService) Finalizar(ctx context.Context, id uint64, usuarioID uint64, payload dto.FinalizarOcorrenciaDTO) error {
	if err := s.authService.ConfirmarSenha(ctx, usuarioID, payload.Senha); err != nil {
		return err
	}

	ocorrencia, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if ocorrencia.Status != entities.OcorrenciaEmAnalise {
		return apperrors.NewHttpError(409, "Apenas ocorrências em análise podem ser finalizadas", apperrors.ErrConflict, nil)
	}

	aberta, err := s.osRepo.ExisteAbertaParaOcorrencia(ctx, id)
	if err != nil {
		return err
	}
	if aberta {
		return apperrors.NewHttpError(409, "Há ordem de serviço em aberto para esta ocorrência", apperrors.ErrConflict, nil)
	}

	if err := s.repo.Finalizar(ctx, id, usuarioID); err != nil {
		return err
	}
	s.logger.Info("ocorrência finalizada", zap.Uint64("id", id), zap.Uint64("usuario_id", usuarioID))
	return nil
}

// Reabrir exige senha e motivo; o motivo fica gravado na ocorrência.
func (s *OcorrenciaService) Reabrir(ctx context.Context, id uint64, usuarioID uint64, payload dto.ReabrirOcorrenciaDTO) error {
	if err := s.authService.ConfirmarSenha(ctx, usuarioID, payload.Senha); err != nil {
		return err
	}

	ocorrencia, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if ocorrencia.Status != entities.OcorrenciaFinalizada {
		return apperrors.NewHttpError(409, "Apenas ocorrências finalizadas podem ser reabertas", apperrors.ErrConflict, nil)
	}

	if err := s.repo.Reabrir(ctx, id, usuarioID, payload.Motivo); err != nil {
		return err
	}
	s.logger.Info("ocorrência reaberta", zap.Uint64("id", id), zap.Uint64("usuario_id", usuarioID))
	return nil
}

func (s *OcorrenciaService) VincularProcedimento(ctx context.Context, id uint64, payload dto.VincularProcedimentoDTO) error {
	ocorrencia, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if ocorrencia.Status == entities.OcorrenciaFinalizada {
		return apperrors.NewHttpError(409, "Ocorrência finalizada não pode receber procedimento", apperrors.ErrConflict, nil)
	}
	return s.repo.VincularProcedimento(ctx, id, payload.ProcedimentoID)
}

func (s *OcorrenciaService) SoftDelete(ctx context.Context, id uint64) error {
	aberta, err := s.osRepo.ExisteAbertaParaOcorrencia(ctx, id)
	if err != nil {
		return err
	}
	if aberta {
		return apperrors.NewHttpError(409, "Há ordem de serviço em aberto para esta ocorrência", apperrors.ErrConflict, nil)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *OcorrenciaService) Restore(ctx context.Context, id uint64) error {
	return s.repo.Restore(ctx, id)
}
