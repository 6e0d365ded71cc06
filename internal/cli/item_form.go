package cli

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/metraj/internal/cli/formatter"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

func metrajHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// itemFormValues holds the raw text entered in the item form.
type itemFormValues struct {
	poz, desc, unit, category  string
	x, y, z, multiplier, count string
	unitWeight, total          string
}

func newItemFormValues(li *domain.LineItem, total *float64) *itemFormValues {
	return &itemFormValues{
		poz:        li.PozCode,
		desc:       li.Description,
		unit:       domain.CoalesceStr(li.Unit, "m3"),
		category:   domain.CoalesceStr(string(li.Category), string(domain.CategoryConcrete)),
		x:          floatText(li.X),
		y:          floatText(li.Y),
		z:          floatText(li.Z),
		multiplier: floatText(li.Multiplier),
		count:      floatText(li.Count),
		unitWeight: floatText(li.UnitWeight),
		total:      floatText(total),
	}
}

func itemForm(v *itemFormValues) *huh.Form {
	units := huh.NewOptions("m3", "m2", "kg", "ton", "m", "adet")
	categories := make([]huh.Option[string], 0, len(domain.Categories))
	for _, c := range domain.Categories {
		categories = append(categories, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Poz").Placeholder("15.150.1005").Value(&v.poz),
			huh.NewInput().Title("Description").Value(&v.desc),
			huh.NewSelect[string]().Title("Unit").Options(units...).Value(&v.unit),
			huh.NewSelect[string]().Title("Category").Options(categories...).Value(&v.category),
		),
		huh.NewGroup(
			numberInput("X", &v.x),
			numberInput("Y", &v.y),
			numberInput("Z", &v.z),
			numberInput("Multiplier", &v.multiplier),
			numberInput("Count", &v.count),
			numberInput("Unit weight (kg)", &v.unitWeight),
			numberInput("Entered total (blank = computed)", &v.total),
		),
	).WithTheme(metrajHuhTheme()).WithShowHelp(false)
}

func numberInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("blank for none").
		Value(value).
		Validate(validateOptionalNumber)
}

func validateOptionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// parseNumber accepts both "0.3" and "0,3".
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("enter a number")
	}
	return v, nil
}

// apply copies the form values onto li and total.
func (v *itemFormValues) apply(li *domain.LineItem, total **float64) error {
	li.PozCode = v.poz
	li.Description = v.desc
	li.Unit = v.unit
	li.Category = domain.Category(v.category)

	fields := []struct {
		text   string
		target **float64
	}{
		{v.x, &li.X}, {v.y, &li.Y}, {v.z, &li.Z},
		{v.multiplier, &li.Multiplier}, {v.count, &li.Count},
		{v.unitWeight, &li.UnitWeight}, {v.total, total},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.text) == "" {
			*f.target = nil
			continue
		}
		n, err := parseNumber(f.text)
		if err != nil {
			return err
		}
		*f.target = &n
	}
	return nil
}

func runItemForm(li *domain.LineItem, total **float64) error {
	v := newItemFormValues(li, *total)
	if err := itemForm(v).Run(); err != nil {
		return errors.Wrap(err, "item form")
	}
	return v.apply(li, total)
}

func floatText(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
