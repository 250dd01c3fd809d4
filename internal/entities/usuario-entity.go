package entities

import "time"

// Perfis de acesso. O super-admin é uma flag à parte, combinável com
// qualquer perfil.
const (
	PerfilPerito         = "PERITO"
	PerfilOperacional    = "OPERACIONAL"
	PerfilAdministrativo = "ADMINISTRATIVO"
)

// Ciclo de vida da conta: auto-cadastro entra PENDENTE e só opera
// depois de aprovado por um administrador.
const (
	UsuarioStatusPendente = "PENDENTE"
	UsuarioStatusAtivo    = "ATIVO"
	UsuarioStatusInativo  = "INATIVO"
)

type Usuario struct {
	ID                 uint64
	NomeCompleto       string
	Email              string
	CPF                string
	Telefone           string
	Senha              string
	Perfil             string
	SuperAdmin         bool
	Status             string
	MustChangePassword bool
	ServicosPericiais  []uint64
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
}

func (u *Usuario) Ativo() bool { return u.Status == UsuarioStatusAtivo && u.DeletedAt == nil }
