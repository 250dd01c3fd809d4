package dto

type IniciarChatDTO struct {
	OcorrenciaID uint64 `json:"ocorrencia_id" validate:"required,gt=0"`
}

type ChatMensagemDTO struct {
	Role     string `json:"role"`
	Conteudo string `json:"conteudo"`
	Em       string `json:"em"`
}

type ChatSessaoDTO struct {
	SessaoID     string            `json:"sessao_id"`
	OcorrenciaID uint64            `json:"ocorrencia_id"`
	Mensagens    []ChatMensagemDTO `json:"mensagens"`
}

type EnviarMensagemDTO struct {
	SessaoID string `json:"sessao_id" validate:"required,uuid4"`
	Conteudo string `json:"conteudo" validate:"required,max=4000"`
}

type GerarLaudoDTO struct {
	SessaoID string `json:"sessao_id" validate:"required,uuid4"`
}

type LaudoDTO struct {
	ID           uint64 `json:"id"`
	OcorrenciaID uint64 `json:"ocorrencia_id"`
	SessaoID     string `json:"sessao_id,omitempty"`
	Conteudo     string `json:"conteudo"`
	GeradoPor    ShortUsuarioDTO `json:"gerado_por"`
	CreatedAt    string `json:"created_at"`
}
