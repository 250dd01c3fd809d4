package entities

const (
	OcorrenciaAguardandoPerito = "AGUARDANDO_PERITO"
	OcorrenciaEmAnalise        = "EM_ANALISE"
	OcorrenciaFinalizada       = "FINALIZADA"
)
