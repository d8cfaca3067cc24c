package services

import (
	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/unit"
)

// RoutingResolver maps (current station, item descriptor) to the next destination.
// It holds no state besides the immutable topology, so the same inputs always give
// the same result and it is safe for concurrent use.
//
// Example:
//
//	resolver := services.NewRoutingResolver(services.DefaultTopology())
//	dest, ok := resolver.Resolve("BH12", "FL-Flange-100")
//	// dest == unit.Destination{Station: "MAZAK", Stage: unit.StageMazak}, ok == true
type RoutingResolver struct {
	topology *Topology
}

func NewRoutingResolver(topology *Topology) *RoutingResolver {
	if topology == nil {
		topology = DefaultTopology()
	}
	return &RoutingResolver{topology: topology}
}

// Resolve evaluates the routes leaving current in declaration order and returns the
// first match. ok is false when current is terminal, unknown, or no predicate matched.
// A predicate that fails to evaluate does not match.
func (r *RoutingResolver) Resolve(current kernel.Station, item string) (unit.Destination, bool) {
	for _, route := range r.topology.routes[current] {
		if route.When != nil {
			matched, err := route.When.Match(item)
			if err != nil || !matched {
				continue
			}
		}
		return unit.Destination{Station: route.To, Stage: route.Stage}, true
	}
	return unit.Destination{}, false
}

// Topology returns the graph the resolver routes on.
func (r *RoutingResolver) Topology() *Topology {
	return r.topology
}
