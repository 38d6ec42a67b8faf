package setup

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)

	noteStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
)

// hintThreshold is the leftover below which the contribution counts as fully invested.
var hintThreshold = decimal.RequireFromString("0.01")

// RenderReport writes a human readable report: purchases, totals, the projected portfolio and a
// closing hint about the leftover.
func RenderReport(w io.Writer, report *domain.Report) {
	res := report.Result

	fmt.Fprintln(w, stepStyle.Render("WHAT TO BUY"))
	if len(res.Recommendations) == 0 {
		fmt.Fprintln(w, noteStyle.Render(res.Message))
	} else {
		fmt.Fprintln(w, purchasesTable(res.Recommendations))
	}

	fmt.Fprintln(w, stepStyle.Render("SUMMARY"))
	fmt.Fprintln(w, totalsTable(res))

	if res.Projection != nil {
		fmt.Fprintln(w, stepStyle.Render("PORTFOLIO AFTER CONTRIBUTION"))
		fmt.Fprintln(w, projectionTable(res.Projection))
	}

	if len(report.Substituted) > 0 {
		fmt.Fprintln(w, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(
			"no quote for "+strings.Join(report.Substituted, ", ")+", fallback price used"))
	}

	fmt.Fprintln(w, noteStyle.Render(LeftoverHint(res, cashName(report))))
}

// LeftoverHint is the closing message of a report.
func LeftoverHint(res *domain.AllocationResult, cash string) string {
	if res.Leftover.Abs().LessThan(hintThreshold) {
		return "Perfect! The whole contribution was allocated."
	}

	lines := []string{fmt.Sprintf("Leftover available: %s. You can:", money(res.Leftover))}
	if cash != "" {
		lines = append(lines, "- put it into "+cash)
	}
	lines = append(lines,
		"- wait to buy a pricier asset",
		"- keep it to invest later")
	return strings.Join(lines, "\n")
}

func cashName(report *domain.Report) string {
	if report.Snapshot == nil {
		return ""
	}
	for _, v := range report.Snapshot.Valuations {
		if v.Asset.IsCash() {
			return v.Asset.Name
		}
	}
	return ""
}

func purchasesTable(recs []domain.Recommendation) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("ASSET", "BUY", "PRICE", "TOTAL")
	for _, r := range recs {
		qty := r.Quantity.String() + " units"
		if r.Kind == domain.AssetKindCash {
			qty = money(r.Quantity)
		}
		t.Row(r.AssetID, qty, money(r.Price), money(r.Cost))
	}
	return t.String()
}

func totalsTable(res *domain.AllocationResult) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("TO INVEST", "LEFTOVER", "CONTRIBUTION").
		Row(money(res.Spent), money(res.Leftover), money(res.Contribution)).
		String()
}

func projectionTable(p *domain.Projection) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("ASSET", "TARGET", "AFTER", "DRIFT")
	for _, pos := range p.Positions {
		t.Row(pos.AssetID, percent(pos.TargetWeight), percent(pos.Weight), percent(pos.Drift))
	}
	return t.String() + fmt.Sprintf("\nmax drift %.2f%% -> %.2f%%", p.DriftBefore.Max*100, p.DriftAfter.Max*100)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
