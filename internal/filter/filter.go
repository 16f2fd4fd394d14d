// Package filter narrows a snapshot collection with a fixed sequence of optional
// predicates. Filtering never touches the source slice.
package filter

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
)

// All is the category criterion that disables category filtering.
const All = "all"

const dateLayout = "2006-01-02"

var validate = validator.New()

// Criteria holds the operator's filter inputs. An empty value disables its stage.
type Criteria struct {
	Category string `json:"type,omitempty"`
	Date     string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Field    string `json:"teacher,omitempty" validate:"max=200"`
	Query    string `json:"q,omitempty" validate:"max=200"`
}

// Reset returns the criteria that let everything through.
func Reset() Criteria {
	return Criteria{Category: All}
}

// Accessors tell the pipeline where each stage reads from. A nil accessor disables
// the corresponding stage.
type Accessors[T any] struct {
	Category func(T) string
	Date     func(T) time.Time
	Field    func(T) string
	Blob     func(T) []string
}

type stage[T any] func(T) bool

// Apply runs the stages in order: category, calendar date, field substring,
// free-text blob substring. Items must pass every active stage.
func Apply[T any](items []T, c Criteria, a Accessors[T]) []T {
	stages := buildStages(c, a)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item, stages) {
			out = append(out, item)
		}
	}
	return out
}

func keep[T any](item T, stages []stage[T]) bool {
	for _, pass := range stages {
		if !pass(item) {
			return false
		}
	}
	return true
}

func buildStages[T any](c Criteria, a Accessors[T]) []stage[T] {
	var stages []stage[T]

	if category := strings.TrimSpace(c.Category); category != "" && category != All && a.Category != nil {
		stages = append(stages, func(item T) bool {
			return a.Category(item) == category
		})
	}

	if date := strings.TrimSpace(c.Date); date != "" && a.Date != nil {
		want, err := time.Parse(dateLayout, date)
		stages = append(stages, func(item T) bool {
			return err == nil && sameDay(a.Date(item), want)
		})
	}

	if field := strings.ToLower(strings.TrimSpace(c.Field)); field != "" && a.Field != nil {
		stages = append(stages, func(item T) bool {
			return strings.Contains(strings.ToLower(a.Field(item)), field)
		})
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query)); query != "" && a.Blob != nil {
		stages = append(stages, func(item T) bool {
			return strings.Contains(strings.ToLower(strings.Join(a.Blob(item), " ")), query)
		})
	}

	return stages
}

// sameDay compares calendar dates, each read in its own location.
func sameDay(got, want time.Time) bool {
	if got.IsZero() {
		return false
	}
	gy, gm, gd := got.Date()
	wy, wm, wd := want.Date()
	return gy == wy && gm == wm && gd == wd
}

// Parse reads criteria from query parameters: type, date, teacher and q.
func Parse(q url.Values) (Criteria, error) {
	c := Criteria{
		Category: strings.TrimSpace(q.Get("type")),
		Date:     strings.TrimSpace(q.Get("date")),
		Field:    strings.TrimSpace(q.Get("teacher")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	if c.Category == "" {
		c.Category = All
	}
	if err := validate.Struct(c); err != nil {
		return Reset(), invalidCriteria(err)
	}
	return c, nil
}

func invalidCriteria(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return failure.Precondition("invalid_filter", "invalid filter")
	}
	if fields[0].Field() == "Date" {
		return failure.Precondition("invalid_filter", "date must use the YYYY-MM-DD format")
	}
	return failure.Precondition("invalid_filter", "filter text is too long")
}
