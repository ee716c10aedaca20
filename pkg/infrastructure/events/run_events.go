package events

import (
	"github.com/planfab/prodsim/pkg/domain/entities"
)

const (
	RunStartedEvent   = "run.started"
	RunCompletedEvent = "run.completed"

	PlanBuiltEvent = "plan.built"

	BatchDepartedEvent = "shipment.departed"

	ShortageIdentifiedEvent = "shortage.identified"
)

type RunStarted struct {
	Year         int    `json:"year"`
	VariantCount int    `json:"variant_count"`
	Policy       string `json:"policy"`
}

type RunCompleted struct {
	Planned entities.Quantity `json:"planned"`
	Actual  entities.Quantity `json:"actual"`
	Shipped entities.Quantity `json:"shipped"`
}

type PlanBuilt struct {
	VariantID entities.VariantID `json:"variant_id"`
	Planned   entities.Quantity  `json:"planned"`
}

type BatchDeparted struct {
	Batch entities.ShipmentBatch `json:"batch"`
}

type ShortageIdentified struct {
	Result entities.ATPResult `json:"result"`
}
