package dto

import "github.com/aarondl/null/v8"

type OcorrenciaDTO struct {
	ID                uint64            `json:"id"`
	Numero            string            `json:"numero"`
	Classificacao     DropdownItemDTO   `json:"classificacao"`
	ServicoPericial   DropdownItemDTO   `json:"servico_pericial"`
	Perito            *ShortUsuarioDTO  `json:"perito,omitempty"`
	OcorrenciaExterna bool              `json:"ocorrencia_externa"`
	Cidade            *DropdownItemDTO  `json:"cidade,omitempty"`
	Bairro            *DropdownItemDTO  `json:"bairro,omitempty"`
	Endereco          string            `json:"endereco,omitempty"`
	Latitude          *float64          `json:"latitude,omitempty"`
	Longitude         *float64          `json:"longitude,omitempty"`
	Procedimento      *ProcedimentoDTO  `json:"procedimento,omitempty"`
	Exames            []DropdownItemDTO `json:"exames"`
	Historico         string            `json:"historico,omitempty"`
	Status            string            `json:"status"`
	FinalizadaEm      string            `json:"finalizada_em,omitempty"`
	FinalizadaPor     *ShortUsuarioDTO  `json:"finalizada_por,omitempty"`
	ReabertaEm        string            `json:"reaberta_em,omitempty"`
	ReabertaPor       *ShortUsuarioDTO  `json:"reaberta_por,omitempty"`
	MotivoReabertura  string            `json:"motivo_reabertura,omitempty"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at,omitempty"`
	DeletedAt         string            `json:"deleted_at,omitempty"`
}

// CreateOcorrenciaDTO: ocorrência convencional exige cidade/bairro/endereço;
// ocorrência externa exige latitude/longitude dentro da janela regional.
// O cruzamento dos dois modos é validado no serviço.
type CreateOcorrenciaDTO struct {
	ClassificacaoID   uint64   `json:"classificacao_id" validate:"required,gt=0"`
	ServicoPericialID uint64   `json:"servico_pericial_id" validate:"required,gt=0"`
	PeritoID          *uint64  `json:"perito_id,omitempty" validate:"omitempty,gt=0"`
	OcorrenciaExterna bool     `json:"ocorrencia_externa"`
	CidadeID          *uint64  `json:"cidade_id,omitempty" validate:"omitempty,gt=0"`
	BairroID          *uint64  `json:"bairro_id,omitempty" validate:"omitempty,gt=0"`
	Endereco          string   `json:"endereco,omitempty" validate:"omitempty,max=500"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,latitude_rr"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,longitude_rr"`
	ProcedimentoID    *uint64  `json:"procedimento_id,omitempty" validate:"omitempty,gt=0"`
	ExameIDs          []uint64 `json:"exame_ids" validate:"omitempty,dive,gt=0"`
	Historico         string   `json:"historico,omitempty"`
}

type UpdateOcorrenciaDTO struct {
	ClassificacaoID null.Uint64  `json:"classificacao_id,omitempty"`
	PeritoID        null.Uint64  `json:"perito_id,omitempty"`
	CidadeID        null.Uint64  `json:"cidade_id,omitempty"`
	BairroID        null.Uint64  `json:"bairro_id,omitempty"`
	Endereco        null.String  `json:"endereco,omitempty"`
	Latitude        null.Float64 `json:"latitude,omitempty" validate:"omitempty"`
	Longitude       null.Float64 `json:"longitude,omitempty" validate:"omitempty"`
	Historico       null.String  `json:"historico,omitempty"`
	ExameIDs        []uint64     `json:"exame_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type FinalizarOcorrenciaDTO struct {
	Senha string `json:"senha" validate:"required"`
}

type ReabrirOcorrenciaDTO struct {
	Senha  string `json:"senha" validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=10"`
}

type VincularProcedimentoDTO struct {
	ProcedimentoID uint64 `json:"procedimento_id" validate:"required,gt=0"`
}
