// Package scenario reads and writes negotiation setups as YAML: the items on
// the table and, for every agent, its criteria ranking and evaluations.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scenario")

// Scenario describes one negotiation.
type Scenario struct {
	Name      string             `yaml:"name"`
	Threshold float64            `yaml:"threshold,omitempty"`
	MaxRounds int                `yaml:"max_rounds,omitempty"`
	Items     []preferences.Item `yaml:"items"`
	Agents    []Agent            `yaml:"agents"`
}

// Agent is one negotiator. Evaluations maps item name to criterion name to
// value name.
type Agent struct {
	Name        string                       `yaml:"name"`
	Initiator   bool                         `yaml:"initiator,omitempty"`
	Threshold   float64                      `yaml:"threshold,omitempty"`
	Criteria    []string                     `yaml:"criteria"`
	Evaluations map[string]map[string]string `yaml:"evaluations,omitempty"`
}

// Profile pairs an agent name with generated preferences.
type Profile struct {
	Name        string
	Preferences *preferences.Preferences
}

// Parse decodes and validates a scenario. When no agent is marked as
// initiator, the first one is.
func Parse(data []byte) (*Scenario, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("scenario: %w: empty document", ErrInvalid)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes the scenario as YAML, creating parent directories.
func (s *Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("scenario: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scenario: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scenario: write %s: %w", path, err)
	}
	return nil
}

func (s *Scenario) normalize() {
	for _, a := range s.Agents {
		if a.Initiator {
			return
		}
	}
	if len(s.Agents) > 0 {
		s.Agents[0].Initiator = true
	}
}

// Validate reports every problem found, wrapped in ErrInvalid.
func (s *Scenario) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if s.Threshold < 0 || s.Threshold > 100 {
		add("threshold %v outside 0..100", s.Threshold)
	}
	if s.MaxRounds < 0 {
		add("max_rounds %d is negative", s.MaxRounds)
	}

	items := make(map[string]bool, len(s.Items))
	for _, item := range s.Items {
		switch {
		case item.Name == "":
			add("item without a name")
		case items[item.Name]:
			add("item %q listed twice", item.Name)
		}
		items[item.Name] = true
	}

	if len(s.Agents) < 2 {
		add("need at least two agents, got %d", len(s.Agents))
	}
	names := make(map[string]bool, len(s.Agents))
	initiators := 0
	for _, a := range s.Agents {
		switch {
		case a.Name == "" || a.Name == message.Broadcast:
			add("invalid agent name %q", a.Name)
		case names[a.Name]:
			add("agent %q listed twice", a.Name)
		}
		names[a.Name] = true
		if a.Initiator {
			initiators++
		}
		if a.Threshold < 0 || a.Threshold > 100 {
			add("agent %q: threshold %v outside 0..100", a.Name, a.Threshold)
		}
		if _, err := a.order(); err != nil {
			add("agent %q: %v", a.Name, err)
		}
		for itemName, evals := range a.Evaluations {
			if !items[itemName] {
				add("agent %q evaluates unknown item %q", a.Name, itemName)
			}
			for c, v := range evals {
				if _, err := preferences.ParseCriterionName(c); err != nil {
					add("agent %q, item %q: %v", a.Name, itemName, err)
				}
				if _, err := preferences.ParseValue(v); err != nil {
					add("agent %q, item %q: %v", a.Name, itemName, err)
				}
			}
		}
	}
	if initiators > 1 {
		add("%d agents marked as initiator, want one", initiators)
	}

	if len(problems) > 0 {
		return fmt.Errorf("scenario: %w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (a Agent) order() ([]preferences.CriterionName, error) {
	order := make([]preferences.CriterionName, 0, len(a.Criteria))
	seen := make(map[preferences.CriterionName]bool, len(a.Criteria))
	for _, name := range a.Criteria {
		c, err := preferences.ParseCriterionName(name)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %s", preferences.ErrDuplicateCriterion, c)
		}
		seen[c] = true
		order = append(order, c)
	}
	return order, nil
}

// Agent returns the named agent.
func (s *Scenario) Agent(name string) (Agent, bool) {
	for _, a := range s.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}

// Preferences builds the named agent's preferences. Items are registered in
// scenario order and evaluations recorded in criterion enumeration order, so
// the result does not depend on map iteration.
func (s *Scenario) Preferences(name string) (*preferences.Preferences, error) {
	a, ok := s.Agent(name)
	if !ok {
		return nil, fmt.Errorf("scenario: unknown agent %q", name)
	}
	order, err := a.order()
	if err != nil {
		return nil, fmt.Errorf("scenario: agent %q: %w", name, err)
	}
	p := preferences.New()
	if err := p.SetCriteriaOrder(order); err != nil {
		return nil, fmt.Errorf("scenario: agent %q: %w", name, err)
	}

	for _, item := range s.Items {
		evals := a.Evaluations[item.Name]
		if len(evals) == 0 {
			continue
		}
		byCriterion := make(map[preferences.CriterionName]preferences.Value, len(evals))
		for cName, vName := range evals {
			c, err := preferences.ParseCriterionName(cName)
			if err != nil {
				return nil, fmt.Errorf("scenario: agent %q: %w", name, err)
			}
			v, err := preferences.ParseValue(vName)
			if err != nil {
				return nil, fmt.Errorf("scenario: agent %q: %w", name, err)
			}
			byCriterion[c] = v
		}
		for _, c := range preferences.AllCriteria() {
			if v, ok := byCriterion[c]; ok {
				p.Record(item, c, v)
			}
		}
	}
	return p, nil
}

// Build registers every agent with service and creates it. An agent without
// its own threshold uses the scenario threshold, then threshold.
func (s *Scenario) Build(service *message.Service, threshold float64, opts ...negotiation.AgentOption) ([]*negotiation.Agent, error) {
	if s.Threshold > 0 {
		threshold = s.Threshold
	}
	agents := make([]*negotiation.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		p, err := s.Preferences(a.Name)
		if err != nil {
			return nil, err
		}
		if err := service.Register(a.Name); err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		agentThreshold := threshold
		if a.Threshold > 0 {
			agentThreshold = a.Threshold
		}
		agents = append(agents, negotiation.NewAgent(negotiation.AgentConfig{
			ID:          a.Name,
			Preferences: p,
			Initiator:   a.Initiator,
			Threshold:   agentThreshold,
		}, service, opts...))
	}
	return agents, nil
}

// FromProfiles builds a scenario from generated preferences. The first
// profile is the initiator.
func FromProfiles(name string, items []preferences.Item, profiles []Profile) *Scenario {
	s := &Scenario{
		Name:  name,
		Items: append([]preferences.Item(nil), items...),
	}
	for i, prof := range profiles {
		a := Agent{
			Name:        prof.Name,
			Initiator:   i == 0,
			Evaluations: make(map[string]map[string]string),
		}
		for _, c := range prof.Preferences.CriteriaOrder() {
			a.Criteria = append(a.Criteria, c.String())
		}
		for _, cv := range prof.Preferences.Evaluations() {
			evals, ok := a.Evaluations[cv.Item.Name]
			if !ok {
				evals = make(map[string]string)
				a.Evaluations[cv.Item.Name] = evals
			}
			evals[cv.Criterion.String()] = cv.Value.String()
		}
		s.Agents = append(s.Agents, a)
	}
	return s
}
