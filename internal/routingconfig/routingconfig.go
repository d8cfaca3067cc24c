// Package routingconfig loads a routing topology from a YAML file.
//
// File layout:
//
//	groups:
//	  - name: primary-group-B
//	    stations: [BH11, BH12, BH15]
//	terminals: [GEREED, AFKEUR]
//	routes:
//	  - from: primary-group-B
//	    to: MAZAK
//	    stage: Mazak
//	    when: 'item startsWith "FL"'
//	  - from: primary-group-B
//	    to: NABEWERKING
//	    stage: Nabewerking
//
// A route matches when its "when" expression evaluates to true for the item
// descriptor, exposed to the expression as "item". "itemPrefix" is a shorthand for a
// case-insensitive prefix test. Routes with neither are unconditional.
package routingconfig

import (
	"bytes"
	"fmt"
	"strings"

	"lotflow/internal/core/domain/model/kernel"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/core/domain/services"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/spf13/viper"
)

// File mirrors the YAML document. Group names live in values, not keys, because viper
// lower-cases map keys.
type File struct {
	Groups    []GroupEntry `mapstructure:"groups"`
	Terminals []string     `mapstructure:"terminals"`
	Routes    []RouteEntry `mapstructure:"routes"`
}

type GroupEntry struct {
	Name     string   `mapstructure:"name"`
	Stations []string `mapstructure:"stations"`
}

type RouteEntry struct {
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	Stage      string `mapstructure:"stage"`
	When       string `mapstructure:"when"`
	ItemPrefix string `mapstructure:"itemPrefix"`
}

// LoadFile reads path and builds a validated topology.
func LoadFile(path string) (*services.Topology, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read routing file: %w", err)
	}
	return fromViper(v)
}

// Load parses a YAML document.
func Load(data []byte) (*services.Topology, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse routing document: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*services.Topology, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode routing document: %w", err)
	}

	cfg, err := f.TopologyConfig()
	if err != nil {
		return nil, err
	}
	return services.NewTopology(cfg)
}

// TopologyConfig converts the document, compiling every expression.
func (f File) TopologyConfig() (services.TopologyConfig, error) {
	cfg := services.TopologyConfig{
		Groups: make(map[string][]kernel.Station, len(f.Groups)),
	}

	for _, g := range f.Groups {
		stations := make([]kernel.Station, 0, len(g.Stations))
		for _, raw := range g.Stations {
			s, err := kernel.NewStation(raw)
			if err != nil {
				return services.TopologyConfig{}, fmt.Errorf("group %s: %w", g.Name, err)
			}
			stations = append(stations, s)
		}
		cfg.Groups[g.Name] = stations
	}

	for _, raw := range f.Terminals {
		s, err := kernel.NewStation(raw)
		if err != nil {
			return services.TopologyConfig{}, fmt.Errorf("terminals: %w", err)
		}
		cfg.Terminals = append(cfg.Terminals, s)
	}

	for i, r := range f.Routes {
		rule, err := r.rule(cfg.Groups)
		if err != nil {
			return services.TopologyConfig{}, fmt.Errorf("route %d (%s -> %s): %w", i, r.From, r.To, err)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	return cfg, nil
}

// rule keeps group names as written and normalizes station codes.
func (r RouteEntry) rule(groups map[string][]kernel.Station) (services.RouteRule, error) {
	from := strings.TrimSpace(r.From)
	if _, isGroup := groups[from]; !isGroup {
		from = strings.ToUpper(from)
	}

	rule := services.RouteRule{
		From:  from,
		To:    kernel.Station(strings.ToUpper(strings.TrimSpace(r.To))),
		Stage: unit.Stage(strings.TrimSpace(r.Stage)),
	}

	switch {
	case r.When != "" && r.ItemPrefix != "":
		return services.RouteRule{}, fmt.Errorf("when and itemPrefix are mutually exclusive")
	case r.When != "":
		predicate, err := NewExpression(r.When)
		if err != nil {
			return services.RouteRule{}, err
		}
		rule.When = predicate
	case r.ItemPrefix != "":
		rule.When = services.ItemPrefix(r.ItemPrefix)
	}

	return rule, nil
}

// Expression is an item predicate written in the expr language.
type Expression struct {
	source  string
	program *vm.Program
}

// NewExpression compiles source. The expression must evaluate to a boolean.
func NewExpression(source string) (*Expression, error) {
	program, err := expr.Compile(source, expr.Env(map[string]any{"item": ""}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("rule compilation failed: %w", err)
	}
	return &Expression{source: source, program: program}, nil
}

func (e *Expression) Match(item string) (bool, error) {
	out, err := expr.Run(e.program, map[string]any{"item": item})
	if err != nil {
		return false, fmt.Errorf("rule execution failed: %w", err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("rule %q returned %T, not bool", e.source, out)
	}
	return matched, nil
}

func (e *Expression) String() string {
	return e.source
}
