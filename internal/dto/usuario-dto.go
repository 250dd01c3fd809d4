package dto

import "github.com/aarondl/null/v8"

type UsuarioDTO struct {
	ID                 uint64   `json:"id"`
	NomeCompleto       string   `json:"nome_completo"`
	Email              string   `json:"email"`
	CPF                string   `json:"cpf"`
	Telefone           string   `json:"telefone,omitempty"`
	Perfil             string   `json:"perfil"`
	SuperAdmin         bool     `json:"super_admin"`
	Status             string   `json:"status"`
	MustChangePassword bool     `json:"must_change_password"`
	ServicosPericiais  []uint64 `json:"servicos_periciais"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
	DeletedAt          string   `json:"deleted_at,omitempty"`
}

type ShortUsuarioDTO struct {
	ID           uint64 `json:"id"`
	NomeCompleto string `json:"nome_completo"`
}

// AprovarUsuarioDTO define perfil e escopos ao aprovar um cadastro PENDENTE.
type AprovarUsuarioDTO struct {
	Perfil            string   `json:"perfil" validate:"required,oneof=PERITO OPERACIONAL ADMINISTRATIVO"`
	ServicosPericiais []uint64 `json:"servicos_periciais" validate:"omitempty,dive,gt=0"`
}

type UpdateUsuarioDTO struct {
	NomeCompleto      null.String `json:"nome_completo,omitempty"`
	Telefone          null.String `json:"telefone,omitempty" validate:"omitempty"`
	Perfil            null.String `json:"perfil,omitempty" validate:"omitempty"`
	ServicosPericiais []uint64    `json:"servicos_periciais,omitempty" validate:"omitempty,dive,gt=0"`
}

// ResetSenhaAdminDTO: reset administrativo; o usuário é forçado a trocar
// a senha no próximo login.
type ResetSenhaAdminDTO struct {
	NovaSenha string `json:"nova_senha" validate:"required,min=8"`
}
