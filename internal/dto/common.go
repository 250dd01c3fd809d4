package dto

// DropdownItemDTO é o formato enxuto consumido pelos selects do front.
type DropdownItemDTO struct {
	ID   uint64 `json:"id"`
	Nome string `json:"nome"`
}

// ConfirmacaoSenhaDTO acompanha ações sensíveis (finalizar, ciência,
// concluir): o usuário reapresenta a própria senha.
type ConfirmacaoSenhaDTO struct {
	Senha string `json:"senha" validate:"required"`
}

// AssinaturaDTO é a confirmação estilo assinatura digital exigida nas
// movimentações: e-mail e senha do usuário atuante, revalidados no servidor.
type AssinaturaDTO struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}
