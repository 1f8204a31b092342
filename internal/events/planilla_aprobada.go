package events

import "time"

const PlanillaAprobadaTopic = "hr.planilla.aprobada.v1"

type PlanillaAprobadaEvent struct {
	EventType  string    `json:"event_type"`
	PlanillaID string    `json:"planilla_id"`
	EmpresaID  string    `json:"empresa_id"`
	AprobadaBy string    `json:"aprobada_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
