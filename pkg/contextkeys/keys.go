package contextkeys

type contextKey string

const (
	UserIDKey     contextKey = "UserID"
	PerfilKey     contextKey = "Perfil"
	SuperAdminKey contextKey = "SuperAdmin"
	ServicosKey   contextKey = "ServicosPericiais"
)
