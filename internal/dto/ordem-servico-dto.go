package dto

type OrdemServicoDTO struct {
	ID                uint64           `json:"id"`
	Numero            string           `json:"numero"`
	OcorrenciaID      uint64           `json:"ocorrencia_id"`
	OcorrenciaNumero  string           `json:"ocorrencia_numero"`
	UnidadeDemandante *DropdownItemDTO `json:"unidade_demandante,omitempty"`
	Autoridade        *DropdownItemDTO `json:"autoridade,omitempty"`
	Perito            ShortUsuarioDTO  `json:"perito"`
	PrazoDias         int              `json:"prazo_dias"`
	EmitidaEm         string           `json:"emitida_em"`
	CienciaEm         string           `json:"ciencia_em,omitempty"`
	ConcluidaEm       string           `json:"concluida_em,omitempty"`
	Status            string           `json:"status"`
	// DiasRestantes só existe depois da ciência; a contagem é autoritativa
	// aqui no servidor, o front apenas formata.
	DiasRestantes       *int   `json:"dias_restantes,omitempty"`
	Urgencia            string `json:"urgencia,omitempty"`
	JustificativaAtraso string `json:"justificativa_atraso,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at,omitempty"`
	DeletedAt           string `json:"deleted_at,omitempty"`
}

type CreateOrdemServicoDTO struct {
	OcorrenciaID        uint64  `json:"ocorrencia_id" validate:"required,gt=0"`
	PeritoID            uint64  `json:"perito_id" validate:"required,gt=0"`
	PrazoDias           int     `json:"prazo_dias" validate:"required,min=1,max=365"`
	UnidadeDemandanteID *uint64 `json:"unidade_demandante_id,omitempty" validate:"omitempty,gt=0"`
	AutoridadeID        *uint64 `json:"autoridade_id,omitempty" validate:"omitempty,gt=0"`
	// Emissão de OS exige confirmação de senha do emissor.
	Senha string `json:"senha" validate:"required"`
}

// TransicaoOrdemServicoDTO cobre ciência e conclusão: ambas são
// transições assinadas, o perito confirma a própria senha.
type TransicaoOrdemServicoDTO struct {
	Senha string `json:"senha" validate:"required"`
}

type JustificarAtrasoDTO struct {
	Justificativa string `json:"justificativa" validate:"required,min=10"`
}

type PendentesCienciaDTO struct {
	Total  uint64            `json:"total"`
	Ordens []OrdemServicoDTO `json:"ordens"`
}
