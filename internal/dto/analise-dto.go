package dto

// ContagemDTO é o par rótulo/valor consumido pelos gráficos do dashboard.
type ContagemDTO struct {
	Rotulo string `json:"rotulo"`
	Total  uint64 `json:"total"`
}

type SerieMensalDTO struct {
	Mes   string `json:"mes"` // formato YYYY-MM
	Total uint64 `json:"total"`
}

type EstatisticasDTO struct {
	TotalOcorrencias uint64           `json:"total_ocorrencias"`
	PorStatus        []ContagemDTO    `json:"por_status"`
	PorClassificacao []ContagemDTO    `json:"por_classificacao"`
	PorCidade        []ContagemDTO    `json:"por_cidade"`
	SerieMensal      []SerieMensalDTO `json:"serie_mensal"`
	OSVencidas       uint64           `json:"os_vencidas"`
	OSAbertas        uint64           `json:"os_abertas"`
}

// PontoMapaDTO alimenta o mapa de calor; só saem pontos com coordenadas
// válidas e não zeradas.
type PontoMapaDTO struct {
	OcorrenciaID  uint64  `json:"ocorrencia_id"`
	Numero        string  `json:"numero"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Classificacao string  `json:"classificacao"`
	Status        string  `json:"status"`
}

// RelatorioItemDTO é a linha do relatório gerencial (JSON ou XLSX).
type RelatorioItemDTO struct {
	OcorrenciaID  uint64 `json:"ocorrencia_id"`
	Numero        string `json:"numero"`
	Classificacao string `json:"classificacao"`
	Servico       string `json:"servico"`
	Cidade        string `json:"cidade"`
	Perito        string `json:"perito"`
	Status        string `json:"status"`
	CriadaEm      string `json:"criada_em"`
	FinalizadaEm  string `json:"finalizada_em,omitempty"`
}
