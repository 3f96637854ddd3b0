package preferences

import "fmt"

// CriterionName identifies a dimension items are compared on. The enum order
// carries no meaning: each agent ranks criteria itself.
type CriterionName int

const (
	ProductionCost CriterionName = iota
	EnvironmentImpact
	Consumption
	Durability
	Noise
)

var criterionNames = map[CriterionName]string{
	ProductionCost:    "PRODUCTION_COST",
	EnvironmentImpact: "ENVIRONMENT_IMPACT",
	Consumption:       "CONSUMPTION",
	Durability:        "DURABILITY",
	Noise:             "NOISE",
}

func (c CriterionName) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CriterionName(%d)", int(c))
}

// Valid reports whether c is part of the known enumeration.
func (c CriterionName) Valid() bool {
	_, ok := criterionNames[c]
	return ok
}

// ParseCriterionName parses names such as "PRODUCTION_COST" or "durability".
func ParseCriterionName(s string) (CriterionName, error) {
	norm := normalizeName(s)
	for c, name := range criterionNames {
		if name == norm {
			return c, nil
		}
	}
	return 0, fmt.Errorf("preferences: unknown criterion %q", s)
}

// AllCriteria returns the full enumeration.
func AllCriteria() []CriterionName {
	return []CriterionName{ProductionCost, EnvironmentImpact, Consumption, Durability, Noise}
}

// Item is something agents negotiate about. Two items are the same item when
// their names are equal.
type Item struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewItem creates an item.
func NewItem(name, description string) Item {
	return Item{Name: name, Description: description}
}

func (i Item) String() string { return i.Name }

// Is reports whether i and other denote the same item.
func (i Item) Is(other Item) bool { return i.Name == other.Name }

// CriterionValue is one agent's evaluation of one item on one criterion.
type CriterionValue struct {
	Item      Item
	Criterion CriterionName
	Value     Value
}
