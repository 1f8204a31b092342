package events

import "time"

const PlanillaProcesadaTopic = "hr.planilla.procesada.v1"

type PlanillaProcesadaEvent struct {
	EventType             string    `json:"event_type"`
	PlanillaID            string    `json:"planilla_id"`
	EmpresaID             string    `json:"empresa_id"`
	ProcesadaBy           string    `json:"procesada_by"`
	EmpleadosActualizados int       `json:"empleados_actualizados"`
	Errores               int       `json:"errores"`
	OccurredAt            time.Time `json:"occurred_at"`
}
