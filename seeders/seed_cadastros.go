package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCadastros carrega os dicionários mínimos para operar: serviços
// periciais, cidades da região e os catálogos simples. Tudo idempotente.
func SeedCadastros(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("  - Carregando cadastros básicos...")

	servicos := []struct{ nome, sigla string }{
		{"Perícia de Local de Crime", "PLC"},
		{"Perícia de Engenharia Legal", "PEL"},
		{"Perícia de Informática Forense", "PIF"},
		{"Perícia Documentoscópica", "PDC"},
		{"Perícia de Balística", "PBL"},
	}
	for _, s := range servicos {
		if _, err := db.Exec(ctx, `
			INSERT INTO servicos_periciais (nome, sigla)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM servicos_periciais WHERE nome = $1)`,
			s.nome, s.sigla); err != nil {
			log.Fatalf("seed servicos_periciais: %v", err)
		}
	}

	cidades := []string{
		"Boa Vista", "Rorainópolis", "Caracaraí", "Alto Alegre", "Mucajaí",
		"Cantá", "Bonfim", "Normandia", "Pacaraima", "Amajari",
		"Caroebe", "Iracema", "São João da Baliza", "São Luiz", "Uiramutã",
	}
	for _, nome := range cidades {
		if _, err := db.Exec(ctx,
			`INSERT INTO cidades (nome) VALUES ($1) ON CONFLICT (nome, uf) DO NOTHING`, nome); err != nil {
			log.Fatalf("seed cidades: %v", err)
		}
	}

	catalogos := map[string][]string{
		"cargos":               {"Perito Criminal", "Agente de Polícia Científica", "Escrivão", "Delegado"},
		"autoridades":          {"Delegado de Polícia Civil", "Juiz de Direito", "Promotor de Justiça"},
		"tipos_procedimento":   {"Inquérito Policial", "Termo Circunstanciado", "Boletim de Ocorrência", "Processo Judicial"},
		"tipos_documento":      {"Ofício", "Memorando", "Requisição", "Despacho"},
		"unidades_demandantes": {"1ª Delegacia de Polícia", "Delegacia-Geral", "Ministério Público", "Vara Criminal"},
	}
	for tabela, nomes := range catalogos {
		for _, nome := range nomes {
			if _, err := db.Exec(ctx,
				`INSERT INTO `+tabela+` (nome) VALUES ($1) ON CONFLICT (nome) DO NOTHING`, nome); err != nil {
				log.Fatalf("seed %s: %v", tabela, err)
			}
		}
	}

	log.Println("    - Cadastros básicos verificados/criados.")
}
