package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/mmcdole/kinofav/internal/tui/styles"
)

// CardHeight is the rendered height of a card including its border
const CardHeight = 5

// CardProps is everything a video card needs to render one item
type CardProps struct {
	ID             string
	Source         string
	Title          string
	Year           string
	Poster         string
	Episodes       int
	SourceName     string
	CurrentEpisode *int
	SearchTitle    string
	Origin         string
	Query          string
	From           string // Provenance tag, e.g. "favorite"
	Type           string // "tv" for multi-episode items, "" otherwise
}

// NewFavoriteCard builds card props for an item shown in the favorites panel
func NewFavoriteCard(item domain.FavoriteItem) CardProps {
	return CardProps{
		ID:             item.ID,
		Source:         item.Source,
		Title:          item.Title,
		Year:           item.Year,
		Poster:         item.Poster,
		Episodes:       item.Episodes,
		SourceName:     item.SourceName,
		CurrentEpisode: item.CurrentEpisode,
		SearchTitle:    item.SearchTitle,
		Origin:         item.Origin,
		Query:          item.SearchTitle,
		From:           domain.CardOriginFavorite,
		Type:           item.CardType(),
	}
}

// Key identifies the card within a grid
func (c CardProps) Key() string {
	return c.ID + c.Source
}

// Progress returns "EP 3/24", "EP 3" or "" when nothing has been watched
func (c CardProps) Progress() string {
	if c.CurrentEpisode == nil {
		return ""
	}
	if c.Episodes > 0 {
		return fmt.Sprintf("EP %d/%d", *c.CurrentEpisode, c.Episodes)
	}
	return fmt.Sprintf("EP %d", *c.CurrentEpisode)
}

// RenderCard renders a bordered card of the given outer width
func RenderCard(c CardProps, selected bool, width int) string {
	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}

	// Border (2) + padding (2)
	inner := width - 4
	if inner < 4 {
		inner = 4
	}

	title := c.Title
	if title == "" {
		title = c.Key()
	}
	titleStyle := styles.SubtitleStyle
	if selected {
		titleStyle = styles.TitleStyle
	}
	titleLine := titleStyle.Render(styles.Truncate(title, inner))

	var meta []string
	if c.Year != "" {
		meta = append(meta, c.Year)
	}
	if c.SourceName != "" {
		meta = append(meta, c.SourceName)
	}
	metaLine := styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), inner))

	var badges []string
	if c.Type == domain.CardTypeSeries {
		badges = append(badges, styles.SeriesBadgeStyle.Render("TV"))
	}
	if c.Origin == "live" {
		badges = append(badges, styles.DimBadgeStyle.Render("LIVE"))
	}
	if p := c.Progress(); p != "" {
		badges = append(badges, styles.AccentStyle.Render(p))
	}
	badgeLine := strings.Join(badges, " ")
	if lipgloss.Width(badgeLine) > inner {
		badgeLine = styles.Truncate(c.Progress(), inner)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, metaLine, badgeLine)
	return style.Width(width - 2).Render(content)
}
