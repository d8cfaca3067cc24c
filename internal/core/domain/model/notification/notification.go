package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/pkg/errs"
)

// ErrNotificationIsNotConstructed is returned when a Notification was not created
// through one of the constructors.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via a constructor")

// Kind classifies a notification for subscribers.
type Kind string

const (
	KindOverproduction Kind = "overproduction"
	KindOverdueRework  Kind = "overdue_rework"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindOverproduction, KindOverdueRework:
		return k, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a known notification kind", s))
	}
}

func (k Kind) String() string {
	return string(k)
}

// Notification is an event addressed to planners and supervisors.
// It refers either to a lot, an order, or both.
type Notification struct {
	id            kernel.UUID
	kind          Kind
	subject       string
	body          string
	relatedLot    string
	relatedOrder  string
	createdAt     time.Time
	isConstructed bool
}

// NewOverproduction reports that a StartProduction batch exceeded the planned quantity.
func NewOverproduction(orderID string, station kernel.Station, lots []string, planned, started int, at time.Time) (*Notification, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}
	if len(lots) == 0 {
		return nil, errs.NewValueIsRequiredError("lots")
	}

	return &Notification{
		id:      kernel.NewUUID(),
		kind:    KindOverproduction,
		subject: fmt.Sprintf("Overproduction on order %s at %s", orderID, station),
		body: fmt.Sprintf("%d unit(s) started beyond the planned quantity of %d (started %d): %s",
			len(lots), planned, started, strings.Join(lots, ", ")),
		relatedLot:    lots[0],
		relatedOrder:  orderID,
		createdAt:     at,
		isConstructed: true,
	}, nil
}

// NewOverdueRework reports a unit held for rework longer than the threshold.
func NewOverdueRework(lotNumber, orderID string, station kernel.Station, heldSince, at time.Time) (*Notification, error) {
	if strings.TrimSpace(lotNumber) == "" {
		return nil, errs.NewValueIsRequiredError("lotNumber")
	}

	days := int(at.Sub(heldSince).Hours() / 24)
	return &Notification{
		id:      kernel.NewUUID(),
		kind:    KindOverdueRework,
		subject: fmt.Sprintf("Lot %s overdue in rework", lotNumber),
		body: fmt.Sprintf("Lot %s has been held at %s for %d day(s) since %s",
			lotNumber, station, days, heldSince.UTC().Format(time.DateOnly)),
		relatedLot:    lotNumber,
		relatedOrder:  orderID,
		createdAt:     at,
		isConstructed: true,
	}, nil
}

// Restore rebuilds a notification read from storage.
func Restore(id kernel.UUID, kind Kind, subject, body, relatedLot, relatedOrder string, createdAt time.Time) (*Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return &Notification{
		id:            id,
		kind:          kind,
		subject:       subject,
		body:          body,
		relatedLot:    relatedLot,
		relatedOrder:  relatedOrder,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) Kind() Kind {
	return n.kind
}

func (n *Notification) Subject() string {
	return n.subject
}

func (n *Notification) Body() string {
	return n.body
}

func (n *Notification) RelatedLot() string {
	return n.relatedLot
}

func (n *Notification) RelatedOrder() string {
	return n.relatedOrder
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}
