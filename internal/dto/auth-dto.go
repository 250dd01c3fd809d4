package dto

type LoginDTO struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type TokenPairDTO struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshDTO struct {
	Refresh string `json:"refresh" validate:"required"`
}

type RegistrarDTO struct {
	NomeCompleto   string `json:"nome_completo" validate:"required,max=255"`
	Email          string `json:"email" validate:"required,email"`
	CPF            string `json:"cpf" validate:"required,cpf"`
	Telefone       string `json:"telefone" validate:"omitempty,telefone_br"`
	Senha          string `json:"senha" validate:"required,min=8"`
	ConfirmarSenha string `json:"confirmar_senha" validate:"required,eqfield=Senha"`
}

type ChangePasswordDTO struct {
	SenhaAtual     string `json:"senha_atual" validate:"required"`
	NovaSenha      string `json:"nova_senha" validate:"required,min=8,nefield=SenhaAtual"`
	ConfirmarSenha string `json:"confirmar_senha" validate:"required,eqfield=NovaSenha"`
}
