// Package argument models the justifications agents exchange: an argument
// concludes for or against an item from premises on criteria. It also
// generates an agent's own arguments and searches for rebuttals.
package argument

import (
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// Premise is one supporting fact of an argument: a CoupleValue or a
// Comparison.
type Premise interface {
	fmt.Stringer
	premise()
}

// CoupleValue states an evaluation: criterion = value.
type CoupleValue struct {
	Criterion preferences.CriterionName `json:"criterion"`
	Value     preferences.Value         `json:"value"`
}

func (CoupleValue) premise() {}

func (c CoupleValue) String() string {
	return fmt.Sprintf("%s=%s", c.Criterion, c.Value)
}

// Comparison states that Best is more important than Worst to the sender.
type Comparison struct {
	Best  preferences.CriterionName `json:"best"`
	Worst preferences.CriterionName `json:"worst"`
}

func (Comparison) premise() {}

func (c Comparison) String() string {
	return fmt.Sprintf("%s>%s", c.Best, c.Worst)
}

// Argument concludes Decision (pro when true, con when false) about Item.
// By convention it carries at most one CoupleValue, the main criterion, and
// at most one Comparison naming the secondary criterion.
type Argument struct {
	Item     preferences.Item
	Decision bool
	premises []Premise
}

// New builds an argument from its conclusion and premises.
func New(item preferences.Item, decision bool, premises ...Premise) Argument {
	return Argument{
		Item:     item,
		Decision: decision,
		premises: append([]Premise(nil), premises...),
	}
}

// Pro is the single-premise argument for item because criterion = value.
func Pro(item preferences.Item, criterion preferences.CriterionName, value preferences.Value) Argument {
	return New(item, true, CoupleValue{Criterion: criterion, Value: value})
}

// Con is the single-premise argument against item because criterion = value.
func Con(item preferences.Item, criterion preferences.CriterionName, value preferences.Value) Argument {
	return New(item, false, CoupleValue{Criterion: criterion, Value: value})
}

// Versus returns a copy of a with the comparison main > worse appended.
// Arguments without a main criterion are returned unchanged.
func (a Argument) Versus(worse preferences.CriterionName) Argument {
	main, ok := a.MainCriterion()
	if !ok {
		return a
	}
	premises := append(a.Premises(), Comparison{Best: main, Worst: worse})
	return New(a.Item, a.Decision, premises...)
}

// Conclusion returns the item and the decision.
func (a Argument) Conclusion() (preferences.Item, bool) {
	return a.Item, a.Decision
}

// Premises returns a copy of the premises in the order they were given.
func (a Argument) Premises() []Premise {
	return append([]Premise(nil), a.premises...)
}

// CoupleValue returns the main criterion/value premise.
func (a Argument) CoupleValue() (CoupleValue, bool) {
	for _, p := range a.premises {
		if cv, ok := p.(CoupleValue); ok {
			return cv, true
		}
	}
	return CoupleValue{}, false
}

// Comparison returns the importance comparison premise.
func (a Argument) Comparison() (Comparison, bool) {
	for _, p := range a.premises {
		if cmp, ok := p.(Comparison); ok {
			return cmp, true
		}
	}
	return Comparison{}, false
}

// MainCriterion is the criterion of the CoupleValue premise.
func (a Argument) MainCriterion() (preferences.CriterionName, bool) {
	cv, ok := a.CoupleValue()
	return cv.Criterion, ok
}

// SecondaryCriterion is the less important side of the Comparison premise.
func (a Argument) SecondaryCriterion() (preferences.CriterionName, bool) {
	cmp, ok := a.Comparison()
	return cmp.Worst, ok
}

// DecisionLabel returns "pro" or "con".
func (a Argument) DecisionLabel() string {
	if a.Decision {
		return "pro"
	}
	return "con"
}

// Key identifies the argument structurally: two arguments with the same key
// have the same conclusion and the same premises in the same order.
func (a Argument) Key() string {
	parts := make([]string, 0, len(a.premises)+2)
	parts = append(parts, a.Item.Name, a.DecisionLabel())
	for _, p := range a.premises {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "|")
}

// Equal reports structural equality.
func (a Argument) Equal(b Argument) bool {
	return a.Key() == b.Key()
}

func (a Argument) String() string {
	var premises []string
	if cmp, ok := a.Comparison(); ok {
		premises = append(premises, cmp.String())
	}
	if cv, ok := a.CoupleValue(); ok {
		premises = append(premises, cv.String())
	}
	prefix := ""
	if !a.Decision {
		prefix = "not "
	}
	return fmt.Sprintf("%s%s, %s", prefix, a.Item.Name, strings.Join(premises, " and "))
}
