package overwatch

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StatTable is one game mode's statistics, keyed by category and then by
// stat name. Values are numbers where the page renders numbers; durations,
// percentages and hero names stay strings.
type StatTable map[string]map[string]any

// extractProfile parses a fetched career page. The portrait is the marker
// that a real profile was served at all; a page without one is rejected
// whole rather than extracted partially.
func extractProfile(body []byte) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	portrait, ok := doc.Find("img.player-portrait").First().Attr("src")
	if !ok {
		return Profile{}, fmt.Errorf("%w: missing portrait", ErrMalformedPage)
	}
	profile := Profile{Portrait: portrait}

	levelNode := doc.Find("div.player-level").First()
	profile.Level = parseInt(levelNode.Find("div.u-vertical-center").First().Text())
	offset, err := prestigeOffset(levelNode.AttrOr("style", ""))
	if err != nil {
		return Profile{}, err
	}
	profile.Level += offset

	rankNode := doc.Find("div.competitive-rank").First()
	profile.Rank = parseInt(rankNode.Find("div.u-align-center").First().Text())
	profile.RankImage = rankNode.Find("img").First().AttrOr("src", "")

	profile.CasualStats = extractStats(doc, "quickplay")
	profile.CompetitiveStats = extractStats(doc, "competitive")
	profile.Achievements = extractAchievements(doc)

	return profile, nil
}

// extractStats walks one game mode's stat tables. Each table is one
// category; each body row is a name cell followed by a value cell.
func extractStats(doc *goquery.Document, mode string) StatTable {
	stats := StatTable{}
	doc.Find("div#" + mode + " table.data-table").Each(func(_ int, table *goquery.Selection) {
		category := strings.TrimSpace(table.Find("thead .stat-title").First().Text())
		if category == "" {
			return
		}
		rows := map[string]any{}
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			name := strings.TrimSpace(cells.Eq(0).Text())
			if name == "" {
				return
			}
			rows[name] = parseStatValue(strings.TrimSpace(cells.Eq(1).Text()))
		})
		if len(rows) > 0 {
			stats[category] = rows
		}
	})
	return stats
}

// extractAchievements collects earned achievements only; locked cards carry
// the m-disabled class.
func extractAchievements(doc *goquery.Document) []string {
	var names []string
	doc.Find("section#achievements-section div.achievement-card").Each(func(_ int, card *goquery.Selection) {
		if card.HasClass("m-disabled") {
			return
		}
		name := strings.TrimSpace(card.Find(".media-card-title").First().Text())
		if name != "" {
			names = append(names, name)
		}
	})
	return names
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseStatValue keeps numeric stats numeric. The page renders integers with
// thousands separators, so those are stripped before parsing.
func parseStatValue(raw string) any {
	plain := strings.ReplaceAll(raw, ",", "")
	if n, err := strconv.Atoi(plain); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(plain, 64); err == nil {
		return f
	}
	return raw
}
