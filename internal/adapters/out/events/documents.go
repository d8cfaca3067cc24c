package events

import (
	"time"

	"lotflow/internal/core/domain/model/notification"
	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
)

// UnitDocument is the published form of a production unit. History is left out; the
// latest entry is enough for dashboards.
type UnitDocument struct {
	LotNumber         string     `json:"lotNumber"`
	OrderID           string     `json:"orderId"`
	ItemCode          string     `json:"itemCode"`
	Item              string     `json:"item"`
	OriginStation     string     `json:"originStation"`
	CurrentStation    string     `json:"currentStation"`
	LastStation       string     `json:"lastStation"`
	Stage             string     `json:"stage"`
	Status            string     `json:"status"`
	IsOverproduction  bool       `json:"isOverproduction"`
	InspectionResult  string     `json:"inspectionResult,omitempty"`
	InspectionReasons []string   `json:"inspectionReasons,omitempty"`
	InspectedAt       *time.Time `json:"inspectedAt,omitempty"`
	LastAction        string     `json:"lastAction,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type OrderDocument struct {
	OrderID          string         `json:"orderId"`
	ItemCode         string         `json:"itemCode"`
	Item             string         `json:"item"`
	PlannedQuantity  int            `json:"plannedQuantity"`
	Status           string         `json:"status"`
	StartedAtStation map[string]int `json:"startedAtStation"`
}

type NotificationDocument struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	RelatedLot   string    `json:"relatedLot,omitempty"`
	RelatedOrder string    `json:"relatedOrder,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewUnitDocument(u *unit.ProductionUnit) UnitDocument {
	doc := UnitDocument{
		LotNumber:        u.LotNumber(),
		OrderID:          u.OrderID(),
		ItemCode:         u.ItemCode(),
		Item:             u.Item(),
		OriginStation:    u.OriginStation().String(),
		CurrentStation:   u.CurrentStation().String(),
		LastStation:      u.LastStation().String(),
		Stage:            u.Stage().String(),
		Status:           u.Status().String(),
		IsOverproduction: u.IsOverproduction(),
		UpdatedAt:        u.UpdatedAt(),
	}

	if inspection := u.Inspection(); inspection != nil {
		at := inspection.Timestamp()
		doc.InspectionResult = inspection.Result().String()
		doc.InspectionReasons = inspection.Reasons()
		doc.InspectedAt = &at
	}

	if history := u.History(); len(history) > 0 {
		doc.LastAction = string(history[len(history)-1].Action())
	}

	return doc
}

func NewOrderDocument(o *order.Order) OrderDocument {
	started := make(map[string]int)
	for station, n := range o.StartedAtStation() {
		started[station.String()] = n
	}

	return OrderDocument{
		OrderID:          o.ID(),
		ItemCode:         o.ItemCode(),
		Item:             o.Item(),
		PlannedQuantity:  o.PlannedQuantity(),
		Status:           o.Status().String(),
		StartedAtStation: started,
	}
}

func NewNotificationDocument(n *notification.Notification) NotificationDocument {
	return NotificationDocument{
		ID:           n.ID().String(),
		Kind:         n.Kind().String(),
		Subject:      n.Subject(),
		Body:         n.Body(),
		RelatedLot:   n.RelatedLot(),
		RelatedOrder: n.RelatedOrder(),
		CreatedAt:    n.CreatedAt(),
	}
}
