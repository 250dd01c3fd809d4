package seeders

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/utils"
)

// SeedSuperAdmin cria o usuário super-admin inicial, se ainda não existir.
// E-mail e senha vêm do ambiente para não fixar credencial no código.
func SeedSuperAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("  - Verificando o super-admin...")

	email := os.Getenv("SUPERADMIN_EMAIL")
	senha := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || senha == "" {
		log.Fatal("defina SUPERADMIN_EMAIL e SUPERADMIN_PASSWORD para criar o super-admin")
	}

	var existe bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM usuarios WHERE LOWER(email) = LOWER($1))`, email).Scan(&existe); err != nil {
		log.Fatalf("seed super-admin: %v", err)
	}
	if existe {
		log.Println("    - Super-admin já cadastrado, nada a fazer.")
		return
	}

	hash, err := utils.HashPassword(senha)
	if err != nil {
		log.Fatalf("seed super-admin: hash de senha: %v", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO usuarios (nome_completo, email, cpf, telefone, senha, perfil, status, super_admin, must_change_password)
		VALUES ('Administrador do Sistema', $1, '00000000000', '95000000000', $2, $3, $4, TRUE, TRUE)`,
		email, hash, entities.PerfilAdministrativo, entities.UsuarioStatusAtivo)
	if err != nil {
		log.Fatalf("seed super-admin: %v", err)
	}
	log.Println("    - Super-admin criado; troque a senha no primeiro login.")
}
