package commands

import (
	"errors"
	"strings"

	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/pkg/errs"
	"lotflow/internal/pkg/guard"
)

var ErrSubmitQualityDecisionCommandIsNotConstructed = errors.New(
	"SubmitQualityDecisionCommand must be created via NewSubmitQualityDecisionCommand constructor",
)

// SubmitQualityDecisionCommand carries an inspector's verdict on one lot.
// TempRejected and Rejected decisions need at least one reason.
type SubmitQualityDecisionCommand struct { //nolint:recvcheck //using for validation
	lotNumber string
	decision  unit.Decision
	reasons   []string
	actor     string
	notes     string

	guard guard.ConstructorGuard
}

func NewSubmitQualityDecisionCommand(
	lotNumber, decision string,
	reasons []string,
	actor, notes string,
) (SubmitQualityDecisionCommand, error) {
	cmd := SubmitQualityDecisionCommand{
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLotNumber(lotNumber),
		cmd.setDecision(decision, reasons),
		cmd.setActor(actor),
	); err != nil {
		return SubmitQualityDecisionCommand{}, err
	}

	return cmd, nil
}

func (c SubmitQualityDecisionCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQualityDecisionCommandIsNotConstructed)
}

func (c SubmitQualityDecisionCommand) LotNumber() string {
	return c.lotNumber
}

func (c SubmitQualityDecisionCommand) Decision() unit.Decision {
	return c.decision
}

func (c SubmitQualityDecisionCommand) Reasons() []string {
	return append([]string(nil), c.reasons...)
}

func (c SubmitQualityDecisionCommand) Actor() string {
	return c.actor
}

func (c SubmitQualityDecisionCommand) Notes() string {
	return c.notes
}

func (c *SubmitQualityDecisionCommand) setLotNumber(lotNumber string) error {
	lotNumber = strings.TrimSpace(lotNumber)
	if lotNumber == "" {
		return errs.NewValueIsRequiredError("lotNumber")
	}
	c.lotNumber = lotNumber
	return nil
}

func (c *SubmitQualityDecisionCommand) setDecision(raw string, reasons []string) error {
	decision, err := unit.ParseDecision(strings.TrimSpace(raw))
	if err != nil {
		return err
	}

	cleaned := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	if decision.RequiresReasons() && len(cleaned) == 0 {
		return errs.NewValueIsRequiredError("reasons")
	}

	c.decision = decision
	c.reasons = cleaned
	return nil
}

func (c *SubmitQualityDecisionCommand) setActor(actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}
