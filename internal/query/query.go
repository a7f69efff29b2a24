// Package query filters and sorts fetched pull requests. Every function
// returns a new slice and leaves its input untouched.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielolaszy/prfetch/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterCriteria narrows a result set. Zero-valued fields impose no constraint.
type FilterCriteria struct {
	// Author matches the PR author's login, case-insensitively.
	Author string
	// Label matches any label name, case-insensitively.
	Label string
	// MinComments keeps PRs whose comments plus review comments reach it.
	MinComments *int
}

// SortField names the key a result set is ordered by.
type SortField string

const (
	SortCreated  SortField = "created"
	SortUpdated  SortField = "updated"
	SortComments SortField = "comments"
	SortTitle    SortField = "title"
)

// SortFields lists the accepted sort fields in display order.
var SortFields = []string{string(SortCreated), string(SortUpdated), string(SortComments), string(SortTitle)}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Directions lists the accepted directions.
var Directions = []string{string(Asc), string(Desc)}

// SortCriteria selects the sort key and direction.
type SortCriteria struct {
	Field     SortField
	Direction Direction
}

// ParseSortField converts s to a SortField.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(s)); f {
	case SortCreated, SortUpdated, SortComments, SortTitle:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseDirection converts s to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// UpstreamSort returns the sort field the API understands for f. Fields the
// API cannot sort by fall back to creation time and are ordered locally.
func UpstreamSort(f SortField) string {
	if f == SortUpdated {
		return string(SortUpdated)
	}
	return string(SortCreated)
}

// Filter returns the pull requests matching every set criterion.
func Filter(items []models.PullRequest, criteria FilterCriteria) []models.PullRequest {
	out := make([]models.PullRequest, 0, len(items))
	for _, pr := range items {
		if criteria.Author != "" && !strings.EqualFold(pr.User.Login, criteria.Author) {
			continue
		}
		if criteria.Label != "" && !hasLabel(pr, criteria.Label) {
			continue
		}
		if criteria.MinComments != nil && pr.TotalComments() < *criteria.MinComments {
			continue
		}
		out = append(out, pr)
	}
	return out
}

func hasLabel(pr models.PullRequest, name string) bool {
	for _, label := range pr.Labels {
		if strings.EqualFold(label.Name, name) {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy of items. Equal keys keep their input
// order in both directions.
func Sort(items []models.PullRequest, criteria SortCriteria) []models.PullRequest {
	out := slices.Clone(items)
	if out == nil {
		out = []models.PullRequest{}
	}

	cmp := comparator(criteria.Field)
	if criteria.Direction == Desc {
		asc := cmp
		cmp = func(a, b models.PullRequest) int { return -asc(a, b) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(field SortField) func(a, b models.PullRequest) int {
	switch field {
	case SortUpdated:
		return func(a, b models.PullRequest) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortComments:
		return func(a, b models.PullRequest) int { return a.TotalComments() - b.TotalComments() }
	case SortTitle:
		// Collators keep internal buffers, so each Sort call gets its own.
		c := collate.New(language.English)
		return func(a, b models.PullRequest) int { return c.CompareString(a.Title, b.Title) }
	default:
		return func(a, b models.PullRequest) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
