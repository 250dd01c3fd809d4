package main

import (
	"flag"
	"log"

	"sistema-pericial/pkg/config"
	"sistema-pericial/pkg/database/postgresql"
	"sistema-pericial/seeders"
)

func main() {
	runCadastros := flag.Bool("cadastros", false, "Carregar serviços periciais, cidades e catálogos")
	runAdmin := flag.Bool("admin", false, "Criar o super-admin (SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD)")
	runAll := flag.Bool("all", false, "Rodar todos os seeders")
	flag.Parse()

	if !*runCadastros && !*runAdmin && !*runAll {
		log.Println("Nenhum seeder selecionado.")
		flag.PrintDefaults()
		log.Println("Exemplo: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if *runAll || *runCadastros {
		seeders.SeedCadastros(dbPool)
	}
	if *runAll || *runAdmin {
		seeders.SeedSuperAdmin(dbPool)
	}
	log.Println("Seed concluído.")
}
