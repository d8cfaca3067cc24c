package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/pkg/errs"
)

// Default station groups of the manufacturing layout.
const (
	GroupFinishing = "finishing-group-A"
	GroupPrimary   = "primary-group-B"
)

// ErrInvalidTopology wraps every topology validation failure.
var ErrInvalidTopology = errors.New("invalid routing topology")

// ItemPredicate decides whether a route applies to an item descriptor.
type ItemPredicate interface {
	Match(item string) (bool, error)
}

// ItemPrefix matches item descriptors starting with the prefix, ignoring case.
type ItemPrefix string

func (p ItemPrefix) Match(item string) (bool, error) {
	return strings.HasPrefix(strings.ToUpper(item), strings.ToUpper(string(p))), nil
}

func (p ItemPrefix) String() string {
	return fmt.Sprintf("item starts with %q", string(p))
}

// RouteRule is one edge of the routing graph as declared in configuration.
// From names either a station or a group; When is nil for the fallback route.
type RouteRule struct {
	From  string
	To    kernel.Station
	Stage unit.Stage
	When  ItemPredicate
}

// Route is a RouteRule resolved to a single source station.
type Route struct {
	From  kernel.Station
	To    kernel.Station
	Stage unit.Stage
	When  ItemPredicate
}

// TopologyConfig is the declarative form of a routing graph.
type TopologyConfig struct {
	Groups    map[string][]kernel.Station
	Terminals []kernel.Station
	Rules     []RouteRule
}

// Topology is a validated, immutable routing graph. Routes leaving a station are
// kept in declaration order.
type Topology struct {
	groups    map[string][]kernel.Station
	terminals []kernel.Station
	routes    map[kernel.Station][]Route
}

// NewTopology expands group rules into per-station routes and validates the graph:
//   - groups are non-empty and pairwise disjoint
//   - terminal stations have no outgoing routes
//   - every station has at most one unconditional route, declared after its conditional ones
//   - destinations are stations and stages are known
func NewTopology(cfg TopologyConfig) (*Topology, error) {
	t := &Topology{
		groups:    make(map[string][]kernel.Station, len(cfg.Groups)),
		terminals: slices.Clone(cfg.Terminals),
		routes:    make(map[kernel.Station][]Route),
	}

	owner := make(map[kernel.Station]string)
	for name, members := range cfg.Groups {
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: group %s is empty", ErrInvalidTopology, name)
		}
		for _, s := range members {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%w: group %s: %w", ErrInvalidTopology, name, err)
			}
			if other, ok := owner[s]; ok && other != name {
				return nil, fmt.Errorf("%w: station %s is in groups %s and %s", ErrInvalidTopology, s, other, name)
			}
			owner[s] = name
		}
		t.groups[name] = slices.Clone(members)
	}

	for i, rule := range cfg.Rules {
		if err := t.addRule(rule); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s -> %s): %w", ErrInvalidTopology, i, rule.From, rule.To, err)
		}
	}

	return t, nil
}

func (t *Topology) addRule(rule RouteRule) error {
	if strings.TrimSpace(rule.From) == "" {
		return errs.NewValueIsRequiredError("from")
	}
	if err := rule.To.Validate(); err != nil {
		return err
	}
	if _, isGroup := t.groups[string(rule.To)]; isGroup {
		return errs.NewValueIsInvalidErrorWithCause("to", fmt.Errorf("%s is a group, not a station", rule.To))
	}
	if err := rule.Stage.Validate(); err != nil {
		return err
	}

	sources, isGroup := t.groups[rule.From]
	if !isGroup {
		sources = []kernel.Station{kernel.Station(rule.From)}
	}

	for _, from := range sources {
		if t.IsTerminal(from) {
			return fmt.Errorf("terminal station %s cannot have outgoing routes", from)
		}
		existing := t.routes[from]
		if n := len(existing); n > 0 && existing[n-1].When == nil {
			return fmt.Errorf("station %s already has an unconditional route; it must be declared last", from)
		}
		t.routes[from] = append(existing, Route{From: from, To: rule.To, Stage: rule.Stage, When: rule.When})
	}
	return nil
}

// IsTerminal reports whether station ends the routing graph.
func (t *Topology) IsTerminal(station kernel.Station) bool {
	return slices.Contains(t.terminals, station)
}

// Group returns the members of a station group.
func (t *Topology) Group(name string) []kernel.Station {
	return slices.Clone(t.groups[name])
}

// RoutesFrom returns the routes leaving station in evaluation order.
func (t *Topology) RoutesFrom(station kernel.Station) []Route {
	return slices.Clone(t.routes[station])
}

// DefaultTopologyConfig describes the production layout: finishing stations go to
// NABEWERKING, primary stations send flanges ("FL" items) to MAZAK and everything
// else to NABEWERKING, both rework stations feed final inspection at BM01 and BM01
// releases to GEREED.
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		Groups: map[string][]kernel.Station{
			GroupFinishing: {"BA05", "BH05", "BH07", "BH08", "BH09"},
			GroupPrimary:   {"BH11", "BH12", "BH15", "BH16", "BH17", "BH18", "BH31"},
		},
		Terminals: []kernel.Station{kernel.StationFinished, kernel.StationRejected},
		Rules: []RouteRule{
			{From: GroupFinishing, To: kernel.StationNabewerking, Stage: unit.StageNabewerking},
			{From: GroupPrimary, To: kernel.StationMazak, Stage: unit.StageMazak, When: ItemPrefix("FL")},
			{From: GroupPrimary, To: kernel.StationNabewerking, Stage: unit.StageNabewerking},
			{From: string(kernel.StationMazak), To: kernel.StationFinalQC, Stage: unit.StageFinalInspection},
			{From: string(kernel.StationNabewerking), To: kernel.StationFinalQC, Stage: unit.StageFinalInspection},
			{From: string(kernel.StationFinalQC), To: kernel.StationFinished, Stage: unit.StageFinished},
		},
	}
}

// DefaultTopology builds the production layout. It panics only if the built-in
// configuration is invalid.
func DefaultTopology() *Topology {
	t, err := NewTopology(DefaultTopologyConfig())
	if err != nil {
		panic(err)
	}
	return t
}
