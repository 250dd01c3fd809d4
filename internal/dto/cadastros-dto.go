package dto

import "github.com/aarondl/null/v8"

// --- Cidade / Bairro ---

type CidadeDTO struct {
	ID        uint64 `json:"id"`
	Nome      string `json:"nome"`
	UF        string `json:"uf"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

type CreateCidadeDTO struct {
	Nome string `json:"nome" validate:"required,max=255"`
	UF   string `json:"uf" validate:"omitempty,len=2,uppercase"`
}

type UpdateCidadeDTO struct {
	Nome null.String `json:"nome,omitempty"`
	UF   null.String `json:"uf,omitempty"`
}

type BairroDTO struct {
	ID        uint64    `json:"id"`
	Nome      string    `json:"nome"`
	Cidade    CidadeDTO `json:"cidade"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at,omitempty"`
	DeletedAt string    `json:"deleted_at,omitempty"`
}

type CreateBairroDTO struct {
	Nome     string `json:"nome" validate:"required,max=255"`
	CidadeID uint64 `json:"cidade_id" validate:"required,gt=0"`
}

type UpdateBairroDTO struct {
	Nome     null.String `json:"nome,omitempty"`
	CidadeID null.Uint64 `json:"cidade_id,omitempty"`
}

// --- Dicionários simples (cargo, autoridade, tipo de procedimento,
// tipo de documento, unidade demandante) ---

type CatalogoDTO struct {
	ID        uint64 `json:"id"`
	Nome      string `json:"nome"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

type CreateCatalogoDTO struct {
	Nome string `json:"nome" validate:"required,max=255"`
}

type UpdateCatalogoDTO struct {
	Nome null.String `json:"nome,omitempty"`
}

// --- Serviço pericial ---

type ServicoPericialDTO struct {
	ID        uint64 `json:"id"`
	Nome      string `json:"nome"`
	Sigla     string `json:"sigla,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

type CreateServicoPericialDTO struct {
	Nome  string `json:"nome" validate:"required,max=255"`
	Sigla string `json:"sigla" validate:"omitempty,max=20,uppercase"`
}

type UpdateServicoPericialDTO struct {
	Nome  null.String `json:"nome,omitempty"`
	Sigla null.String `json:"sigla,omitempty"`
}

// --- Classificação de ocorrência e exames (hierarquia grupo/subgrupo) ---

type ClassificacaoDTO struct {
	ID                uint64  `json:"id"`
	Nome              string  `json:"nome"`
	ServicoPericialID uint64  `json:"servico_pericial_id"`
	ParentID          *uint64 `json:"parent_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at,omitempty"`
	DeletedAt         string  `json:"deleted_at,omitempty"`
}

// ClassificacaoArvoreDTO é o grupo com seus subgrupos, achatado para os
// dropdowns em cascata do front.
type ClassificacaoArvoreDTO struct {
	ID        uint64            `json:"id"`
	Nome      string            `json:"nome"`
	Subgrupos []DropdownItemDTO `json:"subgrupos"`
}

type CreateClassificacaoDTO struct {
	Nome              string  `json:"nome" validate:"required,max=255"`
	ServicoPericialID uint64  `json:"servico_pericial_id" validate:"required,gt=0"`
	ParentID          *uint64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateClassificacaoDTO struct {
	Nome              null.String `json:"nome,omitempty"`
	ServicoPericialID null.Uint64 `json:"servico_pericial_id,omitempty"`
	ParentID          null.Uint64 `json:"parent_id,omitempty"`
}

type ExameDTO = ClassificacaoDTO
type ExameArvoreDTO = ClassificacaoArvoreDTO
type CreateExameDTO = CreateClassificacaoDTO
type UpdateExameDTO = UpdateClassificacaoDTO

// --- Procedimento cadastrado ---

type ProcedimentoDTO struct {
	ID                 uint64          `json:"id"`
	Numero             string          `json:"numero"`
	TipoProcedimento   DropdownItemDTO `json:"tipo_procedimento"`
	Autoridade         DropdownItemDTO `json:"autoridade,omitempty"`
	UnidadeDemandante  DropdownItemDTO `json:"unidade_demandante,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
	DeletedAt          string          `json:"deleted_at,omitempty"`
}

type CreateProcedimentoDTO struct {
	Numero              string  `json:"numero" validate:"required,max=60"`
	TipoProcedimentoID  uint64  `json:"tipo_procedimento_id" validate:"required,gt=0"`
	AutoridadeID        *uint64 `json:"autoridade_id,omitempty" validate:"omitempty,gt=0"`
	UnidadeDemandanteID *uint64 `json:"unidade_demandante_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateProcedimentoDTO struct {
	Numero              null.String `json:"numero,omitempty"`
	TipoProcedimentoID  null.Uint64 `json:"tipo_procedimento_id,omitempty"`
	AutoridadeID        null.Uint64 `json:"autoridade_id,omitempty"`
	UnidadeDemandanteID null.Uint64 `json:"unidade_demandante_id,omitempty"`
}
