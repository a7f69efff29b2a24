package cmd

import (
	"strconv"

	"github.com/danielolaszy/prfetch/internal/prompt"
	"github.com/danielolaszy/prfetch/internal/query"
	"github.com/danielolaszy/prfetch/internal/render"
	"github.com/danielolaszy/prfetch/internal/validate"
)

// promptFetchParams asks for every fetch parameter, starting from defaults.
// Optional filters may be left empty.
func promptFetchParams(p prompt.Prompter, defaults fetchParams) (fetchParams, error) {
	params := defaults
	var err error

	if params.Repository, err = p.Input("Repository (owner/repo)", defaults.Repository, func(s string) error {
		_, _, err := validate.Repository(s)
		return err
	}); err != nil {
		return params, err
	}

	if params.State, err = p.Select("State", states, defaults.State); err != nil {
		return params, err
	}
	if params.Sort, err = p.Select("Sort by", query.SortFields, defaults.Sort); err != nil {
		return params, err
	}
	if params.Direction, err = p.Select("Direction", query.Directions, defaults.Direction); err != nil {
		return params, err
	}
	if params.Format, err = p.Select("Format", render.Formats, defaults.Format); err != nil {
		return params, err
	}

	maxPages, err := p.Input("Max pages", strconv.Itoa(defaults.MaxPages), func(s string) error {
		_, err := validate.PositiveInt("max pages", s, 0)
		return err
	})
	if err != nil {
		return params, err
	}
	if params.MaxPages, err = validate.PositiveInt("max pages", maxPages, 0); err != nil {
		return params, err
	}

	if params.Author, err = p.Input("Author filter (optional)", "", nil); err != nil {
		return params, err
	}
	if params.Label, err = p.Input("Label filter (optional)", "", nil); err != nil {
		return params, err
	}

	minComments, err := p.Input("Minimum comments (optional)", "", func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	})
	if err != nil {
		return params, err
	}
	if minComments != "" {
		n, err := strconv.Atoi(minComments)
		if err != nil {
			return params, err
		}
		params.MinComments = &n
	}

	return params, nil
}
