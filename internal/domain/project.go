package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Short IDs are site codes such as KPR01 or BLOKA0234.
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project groups the line items of one quantity survey.
type Project struct {
	ID         string
	ShortID    string
	Name       string
	Location   string
	Status     ProjectStatus
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeShortID trims and uppercases a user-typed short ID.
func NormalizeShortID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CheckShortID reports whether id is a well-formed short ID: 3-6 uppercase
// letters followed by 2-4 digits.
func CheckShortID(id string) error {
	if id == "" {
		return errors.New("short ID is required")
	}
	if !shortIDPattern.MatchString(id) {
		return errors.Newf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. KPR01)", id)
	}
	return nil
}

// Validate checks the fields a project needs before it is stored.
func (p *Project) Validate() error {
	if err := CheckShortID(p.ShortID); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name is required")
	}
	return nil
}

func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived
}

// DisplayID prefers the short ID and falls back to the first 8 characters
// of the UUID.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
