package entities

import "time"

const (
	ChatRoleSistema = "system"
	ChatRoleUsuario = "user"
	ChatRoleIA      = "assistant"
)

// ChatMensagem é uma entrada do transcript da sessão de redação de laudo,
// serializada em JSON no Redis.
type ChatMensagem struct {
	Role     string    `json:"role"`
	Conteudo string    `json:"conteudo"`
	Em       time.Time `json:"em"`
}

type ChatSessao struct {
	SessaoID     string         `json:"sessao_id"`
	OcorrenciaID uint64         `json:"ocorrencia_id"`
	UsuarioID    uint64         `json:"usuario_id"`
	Mensagens    []ChatMensagem `json:"mensagens"`
}
