package message

// Record is one row of the delivery history. Argument fields are empty for
// performatives without an argument.
type Record struct {
	Round              int    `json:"round"`
	Sender             string `json:"sender"`
	Receiver           string `json:"receiver"`
	Performative       string `json:"performative"`
	Item               string `json:"item"`
	Decision           string `json:"decision,omitempty"`
	MainCriterion      string `json:"main_criterion,omitempty"`
	Value              string `json:"value,omitempty"`
	SecondaryCriterion string `json:"secondary_criterion,omitempty"`
}

// NewRecord flattens msg as sent during round.
func NewRecord(round int, msg Message) Record {
	r := Record{
		Round:        round,
		Sender:       msg.Sender,
		Receiver:     msg.Receiver,
		Performative: msg.Performative.String(),
		Item:         msg.Item.Name,
	}
	if msg.Argument == nil {
		return r
	}
	r.Decision = msg.Argument.DecisionLabel()
	if cv, ok := msg.Argument.CoupleValue(); ok {
		r.MainCriterion = cv.Criterion.String()
		r.Value = cv.Value.String()
	}
	if secondary, ok := msg.Argument.SecondaryCriterion(); ok {
		r.SecondaryCriterion = secondary.String()
	}
	return r
}
