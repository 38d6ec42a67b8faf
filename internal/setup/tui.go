package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/domain"
	"github.com/vadiminshakov/aporte/internal/holdings"
)

// ErrCancelled is returned when the user declines to continue.
var ErrCancelled = errors.New("setup cancelled by user")

// RunWizard asks for current holdings and the contribution, pre-filled from the holdings file at
// path when it exists, and saves the answers back to it.
func RunWizard(p *domain.Portfolio, path string) (*holdings.File, error) {
	previous, err := holdings.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		previous = &holdings.File{Holdings: domain.Holdings{}}
	}

	assets := p.Assets()
	values := make([]string, len(assets))
	for i, a := range assets {
		values[i] = previous.Holdings.Quantity(a.ID).String()
	}
	contributionStr := "1000"
	if previous.Contribution.IsPositive() {
		contributionStr = previous.Contribution.String()
	}

	// step 1: holdings
	clearScreen()
	fmt.Println(headerStyle.Render("APORTE"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Tell me what you hold and how much you want to invest.\n"))
	fmt.Println(stepStyle.Render("STEP 1: CURRENT HOLDINGS"))

	fields := make([]huh.Field, 0, len(assets))
	for i, a := range assets {
		input := huh.NewInput().
			Title(a.ID).
			Value(&values[i])
		if a.IsCash() {
			input = input.Description(a.Name + ", amount invested").Validate(validateCashAmount)
		} else {
			input = input.Description(a.Name + ", units held").Validate(validateUnits)
		}
		fields = append(fields, input)
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, err
	}

	// step 2: contribution
	clearScreen()
	fmt.Println(headerStyle.Render("APORTE"))
	fmt.Println(stepStyle.Render("STEP 2: CONTRIBUTION"))
	var confirm bool
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Contribution").
				Description("Amount to invest now (e.g. 1500.50)").
				Value(&contributionStr).
				Validate(validateContribution),
			huh.NewConfirm().
				Title("Calculate allocation?").
				Affirmative("Yes").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return nil, err
	}
	if !confirm {
		return nil, ErrCancelled
	}

	f := &holdings.File{Holdings: make(domain.Holdings, len(assets))}
	for i, a := range assets {
		// validated above
		qty, _ := decimal.NewFromString(values[i])
		if qty.IsPositive() {
			f.Holdings[a.ID] = qty
		}
	}
	f.Contribution, _ = decimal.NewFromString(contributionStr)

	if err := holdings.Save(path, *f); err != nil {
		return nil, err
	}
	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Holdings saved to %s", path)))
	time.Sleep(500 * time.Millisecond) // small pause to read success message

	return f, nil
}

func clearScreen() {
	fmt.Print("\033[H\033[2J")
}

func validateUnits(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if d.IsNegative() {
		return fmt.Errorf("cannot be negative")
	}
	if !d.Equal(d.Truncate(0)) {
		return fmt.Errorf("must be a whole number of units")
	}
	return nil
}

func validateCashAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("cannot be negative")
	}
	return nil
}

func validateContribution(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
