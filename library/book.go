package library

import (
	"fmt"
	"strconv"
	"strings"

	"pocket_library/lang"
)

const coverURLTemplate = "https://covers.openlibrary.org/b/id/%d-M.jpg"

// Favourite is a book saved to the local library. Zero values mean "unknown"
// and are stored as NULL.
type Favourite struct {
	ID     int64
	Name   string
	Author string
	Year   int
	Cover  string // remote URL or file:// URI
}

// list.Item interface for Bubble Tea
func (f Favourite) Title() string {
	if f.Name == "" {
		return lang.Active().Search.UnknownTitle
	}
	return f.Name
}
func (f Favourite) Description() string {
	return describe(f.Author, f.Year)
}
func (f Favourite) FilterValue() string { return f.Name + " | " + f.Author }

// YearText renders the year, or "" when unknown.
func (f Favourite) YearText() string {
	if f.Year == 0 {
		return ""
	}
	return strconv.Itoa(f.Year)
}

// ApplyEdit returns f with the edit dialog's fields applied. The title is
// required. A year that does not parse becomes unknown.
func ApplyEdit(f Favourite, title, author, year string) (Favourite, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return f, ErrEmptyTitle
	}
	f.Name = title
	f.Author = strings.TrimSpace(author)
	f.Year = parseYear(year)
	return f, nil
}

func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 0 {
		return 0
	}
	return y
}

// ------------------ SearchResult type ------------------
type SearchResult struct {
	Key     string // work key, e.g. "/works/OL45804W"
	Name    string
	Authors []string
	Year    int
	CoverID int
}

// CoverURL is the medium cover image, or "" without a cover id.
func (sr SearchResult) CoverURL() string {
	if sr.CoverID <= 0 {
		return ""
	}
	return fmt.Sprintf(coverURLTemplate, sr.CoverID)
}

// Implement list.Item
func (sr SearchResult) Title() string {
	if sr.Name == "" {
		return lang.Active().Search.UnknownTitle
	}
	return sr.Name
}
func (sr SearchResult) Description() string {
	authors := strings.Join(sr.Authors, ", ")
	if authors == "" {
		authors = lang.Active().Search.UnknownAuthor
	}
	return describe(authors, sr.Year)
}
func (sr SearchResult) FilterValue() string { return sr.Name + " " + strings.Join(sr.Authors, " ") }

// Convert SearchResult to Favourite
func (sr SearchResult) ToFavourite() Favourite {
	return Favourite{
		Name:   sr.Name,
		Author: strings.Join(sr.Authors, ","),
		Year:   sr.Year,
		Cover:  sr.CoverURL(),
	}
}

func describe(author string, year int) string {
	if year == 0 {
		return author
	}
	if author == "" {
		return strconv.Itoa(year)
	}
	return fmt.Sprintf("%s | %d", author, year)
}
