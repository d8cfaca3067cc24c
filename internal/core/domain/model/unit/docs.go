// Package unit provides the ProductionUnit aggregate: one physical lot moving through
// the manufacturing stations.
//
// Key business rules:
//   - A unit starts Active at its origin station and keeps that origin forever
//   - Approved units are routed by a Router; routing to the Finished stage completes the unit
//   - TempRejected units are held at their station until approved or scrapped
//   - Rejected units move to the AFKEUR holding area and are terminal
//   - Completed and rejected units accept no further decisions
//   - Every transition appends exactly one HistoryEntry; history is never rewritten
//
// Example:
//
//	u, err := unit.NewProductionUnit(unit.NewUnitParams{
//	    LotNumber: "4024160124400001",
//	    OrderID:   "PO-24-0117",
//	    ItemCode:  "FL-100",
//	    Item:      "FL-Flange-100",
//	    Station:   "BH12",
//	    Actor:     "operator-7",
//	    Now:       time.Now(),
//	})
//	if err != nil {
//	    return err
//	}
//	err = u.Approve(resolver, "inspector-2", "", time.Now())
package unit
