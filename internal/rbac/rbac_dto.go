package rbac

type EnforceRequest struct {
	UsuarioID string `json:"usuario_id"`
	EmpresaID string `json:"empresa_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
