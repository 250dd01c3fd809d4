package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 15, 30, 0, 0, time.UTC)
}

func TestDiasRestantesOS(t *testing.T) {
	ciencia := dia(2026, time.March, 10)

	// O dia da ciência não consome prazo.
	assert.Equal(t, 10, DiasRestantesOS(ciencia, 10, dia(2026, time.March, 10)))
	assert.Equal(t, 9, DiasRestantesOS(ciencia, 10, dia(2026, time.March, 11)))
	assert.Equal(t, 0, DiasRestantesOS(ciencia, 10, dia(2026, time.March, 20)))
	assert.Equal(t, -2, DiasRestantesOS(ciencia, 10, dia(2026, time.March, 22)))
}

func TestDiasRestantesOS_DiaCalendario(t *testing.T) {
	// A conta é por dia de calendário, não por períodos de 24h: ciência às
	// 23h e consulta às 01h do dia seguinte já consomem um dia.
	ciencia := time.Date(2026, time.March, 10, 23, 0, 0, 0, time.UTC)
	agora := time.Date(2026, time.March, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, DiasRestantesOS(ciencia, 10, agora))
}

func TestUrgenciaOS(t *testing.T) {
	assert.Equal(t, UrgenciaAtrasada, UrgenciaOS(-1))
	assert.Equal(t, UrgenciaVenceHoje, UrgenciaOS(0))
	assert.Equal(t, UrgenciaEmDia, UrgenciaOS(5))
}

func TestStatusEfetivoOS(t *testing.T) {
	menosUm := -1
	cinco := 5

	// Prazo estourado projeta VENCIDA sobre os estados em andamento.
	assert.Equal(t, OSVencida, StatusEfetivoOS(OSAberta, &menosUm))
	assert.Equal(t, OSVencida, StatusEfetivoOS(OSEmAndamento, &menosUm))

	// Concluída e aguardando ciência nunca viram VENCIDA.
	assert.Equal(t, OSConcluida, StatusEfetivoOS(OSConcluida, &menosUm))
	assert.Equal(t, OSAguardandoCiencia, StatusEfetivoOS(OSAguardandoCiencia, nil))

	assert.Equal(t, OSAberta, StatusEfetivoOS(OSAberta, &cinco))
	assert.Equal(t, OSEmAndamento, StatusEfetivoOS(OSEmAndamento, nil))
}
