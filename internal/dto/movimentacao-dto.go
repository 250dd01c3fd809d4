package dto

type MovimentacaoDTO struct {
	ID           uint64           `json:"id"`
	OcorrenciaID uint64           `json:"ocorrencia_id"`
	Assunto      string           `json:"assunto"`
	Descricao    string           `json:"descricao"`
	CriadaPor    ShortUsuarioDTO  `json:"criada_por"`
	AtualizadaPor *ShortUsuarioDTO `json:"atualizada_por,omitempty"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at,omitempty"`
	DeletedAt    string           `json:"deleted_at,omitempty"`
}

// CreateMovimentacaoDTO embute a assinatura (e-mail+senha do autor),
// revalidada no servidor antes de gravar.
type CreateMovimentacaoDTO struct {
	Assunto    string        `json:"assunto" validate:"required,max=255"`
	Descricao  string        `json:"descricao" validate:"required"`
	Assinatura AssinaturaDTO `json:"assinatura" validate:"required"`
}

type UpdateMovimentacaoDTO struct {
	Assunto    string        `json:"assunto" validate:"required,max=255"`
	Descricao  string        `json:"descricao" validate:"required"`
	Assinatura AssinaturaDTO `json:"assinatura" validate:"required"`
}
