// Package render turns pull request result sets into text for the terminal
// or for other programs.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/mattn/go-runewidth"
)

// Format selects the output encoding.
type Format string

const (
	FormatCompact  Format = "compact"
	FormatDetailed Format = "detailed"
	FormatJSON     Format = "json"
)

// Formats lists the accepted formats in display order.
var Formats = []string{string(FormatCompact), string(FormatDetailed), string(FormatJSON)}

// ParseFormat converts s to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCompact, FormatDetailed, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// NoResults is printed by the text formats for an empty result set.
const NoResults = "No pull requests found."

const (
	titleWidth   = 80
	previewLimit = 150
	fieldWidth   = 11
)

// Presenter renders result sets. The zero value is not usable; call NewPresenter.
type Presenter struct {
	now    func() time.Time
	styles styles
}

type styles struct {
	number lipgloss.Style
	title  lipgloss.Style
	muted  lipgloss.Style
	draft  lipgloss.Style
	field  lipgloss.Style
	status map[string]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		number: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		title:  r.NewStyle().Bold(true),
		muted:  r.NewStyle().Foreground(lipgloss.Color("8")),
		draft:  r.NewStyle().Foreground(lipgloss.Color("3")),
		field:  r.NewStyle().Foreground(lipgloss.Color("4")),
		status: map[string]lipgloss.Style{
			"Merged": r.NewStyle().Foreground(lipgloss.Color("5")),
			"Closed": r.NewStyle().Foreground(lipgloss.Color("1")),
			"Draft":  r.NewStyle().Foreground(lipgloss.Color("3")),
			"Open":   r.NewStyle().Foreground(lipgloss.Color("2")),
		},
	}
}

// Option configures a Presenter.
type Option func(*presenterOptions)

type presenterOptions struct {
	now      func() time.Time
	renderer *lipgloss.Renderer
}

// WithClock sets the reference time for relative ages.
func WithClock(now func() time.Time) Option {
	return func(o *presenterOptions) {
		o.now = now
	}
}

// WithRenderer sets the lipgloss renderer, which decides whether colour is emitted.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(o *presenterOptions) {
		o.renderer = r
	}
}

// NewPresenter creates a Presenter writing styles for the default renderer.
func NewPresenter(opts ...Option) *Presenter {
	o := presenterOptions{now: time.Now, renderer: lipgloss.DefaultRenderer()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Presenter{now: o.now, styles: newStyles(o.renderer)}
}

// Render encodes items in the requested format.
func (p *Presenter) Render(items []models.PullRequest, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(items)
	case FormatCompact, FormatDetailed:
		if len(items) == 0 {
			return NoResults, nil
		}
		now := p.now()
		blocks := make([]string, 0, len(items))
		for _, pr := range items {
			if format == FormatCompact {
				blocks = append(blocks, p.compact(pr, now))
			} else {
				blocks = append(blocks, p.detailed(pr, now))
			}
		}
		return strings.Join(blocks, "\n\n"), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func renderJSON(items []models.PullRequest) (string, error) {
	if items == nil {
		items = []models.PullRequest{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode pull requests: %w", err)
	}
	return string(data), nil
}

func (p *Presenter) compact(pr models.PullRequest, now time.Time) string {
	header := p.styles.number.Render(fmt.Sprintf("#%d", pr.Number)) + " " +
		p.styles.title.Render(runewidth.Truncate(pr.Title, titleWidth, "..."))
	if pr.Draft {
		header += " " + p.styles.draft.Render("[draft]")
	}

	details := []string{
		fmt.Sprintf("id %d", pr.ID),
		"by " + pr.User.Login,
		RelativeTime(pr.CreatedAt, now),
	}
	if n := pr.TotalComments(); n > 0 {
		details = append(details, plural(n, "comment"))
	}

	return header + "\n    " + p.styles.muted.Render(strings.Join(details, " · "))
}

func (p *Presenter) detailed(pr models.PullRequest, now time.Time) string {
	var b strings.Builder

	b.WriteString(p.styles.number.Render(fmt.Sprintf("#%d", pr.Number)))
	b.WriteString(" ")
	b.WriteString(p.styles.title.Render(pr.Title))

	status := Status(pr)
	stats := fmt.Sprintf("%s, %s, +%d/-%d, %s",
		plural(pr.TotalComments(), "comment"),
		plural(pr.Commits, "commit"),
		pr.Additions, pr.Deletions,
		plural(pr.ChangedFiles, "file")+" changed")

	p.field(&b, "Author", pr.User.Login)
	p.field(&b, "Created", RelativeTime(pr.CreatedAt, now))
	p.field(&b, "Updated", RelativeTime(pr.UpdatedAt, now))
	p.field(&b, "Status", p.styles.status[status].Render(status))
	p.field(&b, "Stats", stats)

	if len(pr.Labels) > 0 {
		names := make([]string, len(pr.Labels))
		for i, l := range pr.Labels {
			names[i] = l.Name
		}
		p.field(&b, "Labels", strings.Join(names, ", "))
	}
	if len(pr.RequestedReviewers) > 0 {
		logins := make([]string, len(pr.RequestedReviewers))
		for i, u := range pr.RequestedReviewers {
			logins[i] = u.Login
		}
		p.field(&b, "Reviewers", strings.Join(logins, ", "))
	}
	if pr.HTMLURL != "" {
		p.field(&b, "URL", pr.HTMLURL)
	}
	if preview := BodyPreview(pr.Body); preview != "" {
		p.field(&b, "Body", preview)
	}

	return b.String()
}

func (p *Presenter) field(b *strings.Builder, name, value string) {
	b.WriteString("\n  ")
	b.WriteString(p.styles.field.Render(runewidth.FillRight(name+":", fieldWidth)))
	b.WriteString(value)
}

// Status derives the display status: merged wins over closed, closed over
// draft, otherwise open.
func Status(pr models.PullRequest) string {
	switch {
	case pr.MergedAt != nil:
		return "Merged"
	case pr.ClosedAt != nil:
		return "Closed"
	case pr.Draft:
		return "Draft"
	default:
		return "Open"
	}
}

// BodyPreview flattens body onto one line and cuts it to 150 characters,
// marking a cut with "...". Nil or blank bodies give "".
func BodyPreview(body *string) string {
	if body == nil {
		return ""
	}
	text := strings.Join(strings.Fields(*body), " ")
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}

// RenderSummary describes how much of the result set was fetched.
func (p *Presenter) RenderSummary(s models.PaginationSummary) string {
	line := fmt.Sprintf("Fetched %s (last page %d, %d per page)",
		plural(s.TotalFetched, "pull request"), s.Page, s.PerPage)
	if s.HasNextPage {
		line += "; more pages are available, raise --max-pages to fetch them"
	}
	return p.styles.muted.Render(line)
}

// RenderRateLimit describes the remaining API quota.
func (p *Presenter) RenderRateLimit(r models.RateLimit) string {
	now := p.now()
	reset := r.Reset.Local().Format("15:04:05")
	wait := r.Reset.Sub(now).Round(time.Second)
	if wait < 0 {
		wait = 0
	}
	return fmt.Sprintf("Rate limit: %d/%d requests remaining\nResets at %s (in %s)",
		r.Remaining, r.Limit, reset, wait)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
