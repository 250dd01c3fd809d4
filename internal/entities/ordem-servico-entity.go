package entities

import "time"

// Estados da ordem de serviço. VENCIDA é derivado: uma OS em andamento com
// prazo estourado é apresentada como vencida sem mudança física de estado
// até a conclusão ou justificativa.
const (
	OSAguardandoCiencia = "AGUARDANDO_CIENCIA"
	OSAberta            = "ABERTA"
	OSEmAndamento       = "EM_ANDAMENTO"
	OSVencida           = "VENCIDA"
	OSConcluida         = "CONCLUIDA"
)

// Faixas de urgência exibidas pelo front; o cálculo é feito aqui no servidor.
const (
	UrgenciaAtrasada  = "ATRASADA"
	UrgenciaVenceHoje = "VENCE_HOJE"
	UrgenciaEmDia     = "EM_DIA"
)

// DiasRestantesOS conta em dias de calendário: o prazo corre a partir da
// data da ciência, não da emissão.
func DiasRestantesOS(cienciaEm time.Time, prazoDias int, agora time.Time) int {
	inicio := time.Date(cienciaEm.Year(), cienciaEm.Month(), cienciaEm.Day(), 0, 0, 0, 0, cienciaEm.Location())
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	decorridos := int(hoje.Sub(inicio).Hours() / 24)
	return prazoDias - decorridos
}

func UrgenciaOS(diasRestantes int) string {
	switch {
	case diasRestantes < 0:
		return UrgenciaAtrasada
	case diasRestantes == 0:
		return UrgenciaVenceHoje
	default:
		return UrgenciaEmDia
	}
}

// StatusEfetivoOS aplica a derivação de VENCIDA sobre o estado persistido.
func StatusEfetivoOS(status string, diasRestantes *int) string {
	if status == OSConcluida || status == OSAguardandoCiencia {
		return status
	}
	if diasRestantes != nil && *diasRestantes < 0 {
		return OSVencida
	}
	return status
}
