// Package unitrepo persists production units and their append-only history.
package unitrepo

import (
	"time"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/unit"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UnitDTO is the production_units row. The inspection columns are NULL while a unit
// has no pending inspection. Timestamps come from the aggregate, not from GORM.
type UnitDTO struct {
	LotNumber         string `gorm:"primaryKey"`
	OrderID           string `gorm:"index;not null"`
	ItemCode          string `gorm:"not null"`
	Item              string `gorm:"not null"`
	OriginStation     string `gorm:"not null"`
	CurrentStation    string `gorm:"index;not null"`
	LastStation       string `gorm:"not null"`
	Stage             string `gorm:"not null"`
	Status            string `gorm:"index;not null"`
	InspectionResult  *string
	InspectionReasons pq.StringArray `gorm:"type:text[]"`
	InspectionAt      *time.Time     `gorm:"index"`
	IsOverproduction  bool           `gorm:"index;not null;default:false"`
	OverproducedFrom  string         `gorm:"not null;default:''"`
	Note              string
	ReminderSent      bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`

	History []HistoryDTO `gorm:"foreignKey:LotNumber;references:LotNumber"`
}

func (UnitDTO) TableName() string {
	return "production_units"
}

// HistoryDTO is one unit_history row. Position orders the entries of a lot and is
// unique per lot, so a concurrent writer appending the same position fails.
type HistoryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LotNumber string    `gorm:"not null;uniqueIndex:idx_unit_history_lot_position"`
	Position  int       `gorm:"not null;uniqueIndex:idx_unit_history_lot_position"`
	Action    string    `gorm:"not null"`
	Station   string    `gorm:"not null"`
	Actor     string    `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
	Notes     string
}

func (HistoryDTO) TableName() string {
	return "unit_history"
}

// fromDomain maps the mutable unit state. History is mapped separately because only
// pending entries are ever written.
func fromDomain(u *unit.ProductionUnit) UnitDTO {
	dto := UnitDTO{
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
		OverproducedFrom: u.OverproducedFrom(),
		Note:             u.Note(),
		ReminderSent:     u.ReminderSent(),
		CreatedAt:        u.CreatedAt(),
		UpdatedAt:        u.UpdatedAt(),
	}

	if inspection := u.Inspection(); inspection != nil {
		result := inspection.Result().String()
		at := inspection.Timestamp()
		dto.InspectionResult = &result
		dto.InspectionReasons = pq.StringArray(inspection.Reasons())
		dto.InspectionAt = &at
	}

	return dto
}

// pendingHistory maps the entries not stored yet, numbering them after the stored ones.
func pendingHistory(u *unit.ProductionUnit) []HistoryDTO {
	pending := u.PendingHistory()
	first := len(u.History()) - len(pending)

	dtos := make([]HistoryDTO, 0, len(pending))
	for i, entry := range pending {
		dtos = append(dtos, HistoryDTO{
			ID:        entry.ID().Raw(),
			LotNumber: u.LotNumber(),
			Position:  first + i,
			Action:    string(entry.Action()),
			Station:   entry.Station().String(),
			Actor:     entry.Actor(),
			Timestamp: entry.Timestamp(),
			Notes:     entry.Notes(),
		})
	}
	return dtos
}

// toDomain expects dto.History sorted by position.
func toDomain(dto UnitDTO) (*unit.ProductionUnit, error) {
	stage, err := unit.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}
	status, err := unit.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var inspection *unit.Inspection
	if dto.InspectionResult != nil && dto.InspectionAt != nil {
		result, parseErr := unit.ParseDecision(*dto.InspectionResult)
		if parseErr != nil {
			return nil, parseErr
		}
		restored := unit.NewInspection(result, dto.InspectionReasons, *dto.InspectionAt)
		inspection = &restored
	}

	history := make([]unit.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		id, idErr := kernel.UUIDFromRaw(h.ID)
		if idErr != nil {
			return nil, idErr
		}
		history = append(history, unit.RestoreHistoryEntry(
			id,
			unit.Action(h.Action),
			kernel.Station(h.Station),
			h.Actor,
			h.Timestamp,
			h.Notes,
		))
	}

	return unit.RestoreProductionUnit(unit.Snapshot{
		LotNumber:        dto.LotNumber,
		OrderID:          dto.OrderID,
		ItemCode:         dto.ItemCode,
		Item:             dto.Item,
		OriginStation:    kernel.Station(dto.OriginStation),
		CurrentStation:   kernel.Station(dto.CurrentStation),
		LastStation:      kernel.Station(dto.LastStation),
		Stage:            stage,
		Status:           status,
		Inspection:       inspection,
		IsOverproduction: dto.IsOverproduction,
		OverproducedFrom: dto.OverproducedFrom,
		Note:             dto.Note,
		History:          history,
		ReminderSent:     dto.ReminderSent,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	})
}
