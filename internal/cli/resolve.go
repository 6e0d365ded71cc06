package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
)

// resolveProjectID accepts a short ID (case-insensitive), a full UUID or a
// unique UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", errors.New("project ID is required")
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.Newf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveItemID accepts a full line item UUID or a unique prefix of one.
func resolveItemID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", errors.New("item ID is required")
	}
	if li, err := app.Items.GetByID(ctx, input); err == nil {
		return li.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		items, err := app.Items.ListByProject(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, li := range items {
			if strings.HasPrefix(li.ID, input) {
				matches = append(matches, li.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.Newf("line item not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf("line item ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
