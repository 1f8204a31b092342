package planilla

import "github.com/shopspring/decimal"

type ElegiblesFilterRequest struct {
	Moneda       string `form:"moneda" binding:"required"`
	TipoPlanilla string `form:"tipo_planilla" binding:"required"`
}

type AjusteResponse struct {
	ID         string          `json:"id"`
	EmpleadoID string          `json:"empleado_id"`
	Monto      decimal.Decimal `json:"monto"`
	Detalle    string          `json:"detalle,omitempty"`
	Estado     string          `json:"estado"`
}

type EmpleadoElegibleResponse struct {
	EmpleadoID   string          `json:"empleado_id"`
	Nombre       string          `json:"nombre"`
	SalarioBase  decimal.Decimal `json:"salario_base"`
	Moneda       string          `json:"moneda"`
	TipoPlanilla string          `json:"tipo_planilla"`

	Aumentos     []AjusteResponse `json:"aumentos"`
	HorasExtra   []AjusteResponse `json:"horas_extra"`
	BonosMetrica []AjusteResponse `json:"bonos_metrica"`
	Rebajos      []AjusteResponse `json:"rebajos"`
}

type TransicionResponse struct {
	PlanillaID     string `json:"planilla_id"`
	Estado         string `json:"estado"`
	FilasAfectadas int64  `json:"filas_afectadas"`
}

type AumentosProcesadosResponse struct {
	EmpleadosActualizados int      `json:"empleados_actualizados"`
	Errores               int      `json:"errores"`
	DetalleErrores        []string `json:"detalle_errores,omitempty"`
}

type ProcesamientoResponse struct {
	PlanillaID     string                     `json:"planilla_id"`
	Estado         string                     `json:"estado"`
	FilasAfectadas int64                      `json:"filas_afectadas"`
	Aumentos       AumentosProcesadosResponse `json:"aumentos"`
}

type UpsertDetalleRequest struct {
	EmpleadoID string `json:"empleado_id" binding:"required,uuid"`
	Semana     string `json:"semana"`

	Bruta            decimal.Decimal `json:"bruta"`
	FCL              decimal.Decimal `json:"fcl"`
	RebajosCliente   decimal.Decimal `json:"rebajos_cliente"`
	Cuota            decimal.Decimal `json:"cuota"`
	RebajosOPU       decimal.Decimal `json:"rebajos_opu"`
	ReintegroCliente decimal.Decimal `json:"reintegro_cliente"`
	ReintegrosOPU    decimal.Decimal `json:"reintegros_opu"`
	Deposito         decimal.Decimal `json:"deposito"`
	TotalDeducciones decimal.Decimal `json:"total_deducciones"`
	TotalReintegros  decimal.Decimal `json:"total_reintegros"`
	Neta             decimal.Decimal `json:"neta"`
}

type DetalleResponse struct {
	ID         string `json:"id"`
	EmpleadoID string `json:"empleado_id"`
	EmpresaID  string `json:"empresa_id"`
	PlanillaID string `json:"planilla_id"`
	Semana     string `json:"semana,omitempty"`

	Bruta            decimal.Decimal `json:"bruta"`
	FCL              decimal.Decimal `json:"fcl"`
	RebajosCliente   decimal.Decimal `json:"rebajos_cliente"`
	Cuota            decimal.Decimal `json:"cuota"`
	RebajosOPU       decimal.Decimal `json:"rebajos_opu"`
	ReintegroCliente decimal.Decimal `json:"reintegro_cliente"`
	ReintegrosOPU    decimal.Decimal `json:"reintegros_opu"`
	Deposito         decimal.Decimal `json:"deposito"`
	TotalDeducciones decimal.Decimal `json:"total_deducciones"`
	TotalReintegros  decimal.Decimal `json:"total_reintegros"`
	Neta             decimal.Decimal `json:"neta"`

	Estado        string `json:"estado"`
	CorreoEnviado string `json:"correo_enviado"`
}
