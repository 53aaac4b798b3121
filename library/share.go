package library

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"pocket_library/lang"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// ShareText is the recommendation message for f.
func ShareText(f Favourite) string {
	s := lang.Active().Share
	author := f.Author
	if strings.TrimSpace(author) == "" {
		author = s.Unknown
	}
	year := f.YearText()
	if year == "" {
		year = s.Unknown
	}

	var b strings.Builder
	b.WriteString(s.Intro)
	fmt.Fprintf(&b, "\n%s: %s", s.TitleLabel, f.Name)
	fmt.Fprintf(&b, "\n%s: %s", s.AuthorLabel, author)
	fmt.Fprintf(&b, "\n%s: %s", s.YearLabel, year)
	return b.String()
}

func ShareSubject(f Favourite) string {
	return lang.ShareSubject(f.Name)
}

// Share copies the subject and recommendation to the system clipboard.
func Share(f Favourite) error {
	if err := writeClipboard(ShareSubject(f) + "\n\n" + ShareText(f)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
