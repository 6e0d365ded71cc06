package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithLocation(loc string) ProjectOption {
	return func(p *domain.Project) {
		p.Location = loc
	}
}

// WithProjectStatus sets the status; an archived project also gets ArchivedAt.
func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
		p.ArchivedAt = nil
		if s == domain.ProjectArchived {
			at := p.UpdatedAt
			p.ArchivedAt = &at
		}
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Location:  "Ankara",
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LineItem options
type LineItemOption func(*domain.LineItem)

func WithUnit(u string) LineItemOption {
	return func(li *domain.LineItem) {
		li.Unit = u
	}
}

func WithCategory(c domain.Category) LineItemOption {
	return func(li *domain.LineItem) {
		li.Category = c
	}
}

// WithDims sets the three dimensions. Pass 0 to leave one absent.
func WithDims(x, y, z float64) LineItemOption {
	return func(li *domain.LineItem) {
		li.X = optional(x)
		li.Y = optional(y)
		li.Z = optional(z)
	}
}

func WithMultiplier(m float64) LineItemOption {
	return func(li *domain.LineItem) {
		li.Multiplier = &m
	}
}

func WithCount(c float64) LineItemOption {
	return func(li *domain.LineItem) {
		li.Count = &c
	}
}

func WithUnitWeight(w float64) LineItemOption {
	return func(li *domain.LineItem) {
		li.UnitWeight = &w
	}
}

// WithTotal sets the user-entered total, overriding the computed default.
func WithTotal(total float64) LineItemOption {
	return func(li *domain.LineItem) {
		li.TotalQuantity = total
	}
}

func WithDescription(d string) LineItemOption {
	return func(li *domain.LineItem) {
		li.Description = d
	}
}

func WithOrderIndex(i int) LineItemOption {
	return func(li *domain.LineItem) {
		li.OrderIndex = i
	}
}

// NewTestLineItem builds a 1x1x1 m3 concrete item whose total matches its
// computed quantity unless WithTotal overrides it.
func NewTestLineItem(projectID, poz string, opts ...LineItemOption) *domain.LineItem {
	now := time.Now().UTC()
	li := &domain.LineItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		PozCode:   poz,
		Unit:      "m3",
		Category:  domain.CategoryConcrete,
		X:         domain.Float64Ptr(1),
		Y:         domain.Float64Ptr(1),
		Z:         domain.Float64Ptr(1),
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Sentinel: negative totals are not produced by any fixture option.
	li.TotalQuantity = -1
	for _, opt := range opts {
		opt(li)
	}
	li.ComputedQuantity = quantity.Calculate(*li)
	if li.TotalQuantity == -1 {
		li.TotalQuantity = li.ComputedQuantity
	}
	return li
}

func optional(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
