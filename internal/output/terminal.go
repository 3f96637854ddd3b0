package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorenzotomasdiez/argue/internal/argument"
	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

var (
	roundStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	agentStyle  = lipgloss.NewStyle().Bold(true)
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#56B6C2"))
	goodStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98C379"))
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	performativeStyles = map[string]lipgloss.Style{
		message.Propose.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		message.Accept.String():  goodStyle,
		message.Commit.String():  goodStyle,
		message.Reject.String():  badStyle,
		message.AskWhy.String():  lipgloss.NewStyle().Foreground(lipgloss.Color("#C678DD")),
		message.Argue.String():   lipgloss.NewStyle().Foreground(lipgloss.Color("#D19A66")),
	}
)

// FormatRecord renders one history row as plain text, e.g.
// "A1 -> A2 ARGUE item1 (pro, PRODUCTION_COST=VERY_GOOD)".
func FormatRecord(rec message.Record) string {
	s := fmt.Sprintf("%s -> %s %s %s", rec.Sender, rec.Receiver, rec.Performative, rec.Item)
	if detail := argumentDetail(rec); detail != "" {
		s += " (" + detail + ")"
	}
	return s
}

func argumentDetail(rec message.Record) string {
	if rec.Decision == "" {
		return ""
	}
	parts := []string{rec.Decision}
	if rec.MainCriterion != "" {
		parts = append(parts, rec.MainCriterion+"="+rec.Value)
	}
	if rec.SecondaryCriterion != "" {
		parts = append(parts, rec.MainCriterion+">"+rec.SecondaryCriterion)
	}
	return strings.Join(parts, ", ")
}

// PrintRecord prints a formatted history row to stdout.
func PrintRecord(rec message.Record) {
	style, ok := performativeStyles[rec.Performative]
	if !ok {
		style = lipgloss.NewStyle()
	}
	line := fmt.Sprintf("%s %s -> %s: %s %s",
		roundStyle.Render(fmt.Sprintf("[Round %d]", rec.Round)),
		agentStyle.Render(rec.Sender),
		rec.Receiver,
		style.Render(rec.Performative),
		rec.Item,
	)
	if detail := argumentDetail(rec); detail != "" {
		line += " " + dimStyle.Render("("+detail+")")
	}
	fmt.Println(line)
}

// PrintHeader prints the negotiation banner.
func PrintHeader(topic string, participants []string) {
	fmt.Printf("\n%s\n%s\n\n",
		bannerStyle.Render("=== Negotiation: "+topic+" ==="),
		dimStyle.Render("Participants: "+strings.Join(participants, ", ")),
	)
}

// PrintOutcome prints the outcome summary.
func PrintOutcome(outcome *negotiation.Outcome) {
	agreed := badStyle.Render("No")
	if outcome.Agreed {
		agreed = goodStyle.Render("Yes")
	}
	fmt.Printf("Agreement: %s\n", agreed)
	if outcome.Agreed {
		fmt.Printf("Item: %s\n", agentStyle.Render(outcome.Item))
		fmt.Printf("Parties: %s\n", strings.Join(outcome.Parties, ", "))
	}
	if len(outcome.Rejected) > 0 {
		fmt.Printf("Rejected: %s\n", strings.Join(outcome.Rejected, ", "))
	}
	fmt.Printf("Arguments exchanged: %d\n", outcome.Arguments)
	fmt.Printf("Rounds: %s (%s)\n", roundStyle.Render(fmt.Sprintf("%d", outcome.Rounds)), outcome.Stop)
}

// PrintPreferences prints an agent's ranking and, for every known item, its
// score followed by its evaluations in ranking order.
func PrintPreferences(name string, p *preferences.Preferences) {
	order := make([]string, 0, len(p.CriteriaOrder()))
	for _, c := range p.CriteriaOrder() {
		order = append(order, c.String())
	}
	fmt.Printf("%s %s\n", agentStyle.Render(name), dimStyle.Render(strings.Join(order, " > ")))

	for _, item := range p.Items() {
		values := make([]string, 0)
		for _, cv := range p.CriterionValues(item) {
			values = append(values, valueStyle(cv.Value).Render(cv.Criterion.String()+"="+cv.Value.String()))
		}
		fmt.Printf("  %-20s %6d  %s\n", item.Name, p.Score(item), strings.Join(values, " "))
	}
}

// PrintArguments prints the supporting and attacking arguments for item.
func PrintArguments(item preferences.Item, supporting, attacking []argument.Argument) {
	fmt.Printf("  %s\n", agentStyle.Render(item.Name))
	for _, a := range supporting {
		fmt.Printf("    %s %s\n", goodStyle.Render("+"), a)
	}
	for _, a := range attacking {
		fmt.Printf("    %s %s\n", badStyle.Render("-"), a)
	}
	if len(supporting) == 0 && len(attacking) == 0 {
		fmt.Printf("    %s\n", dimStyle.Render("no arguments"))
	}
}

func valueStyle(v preferences.Value) lipgloss.Style {
	switch {
	case v.IsGood():
		return goodStyle
	case v.IsBad():
		return badStyle
	default:
		return dimStyle
	}
}
