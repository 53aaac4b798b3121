package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pocket_library/lang"
	"pocket_library/library"
	"pocket_library/utils"
)

const detailsTimeout = 20 * time.Second

// ---------------- Messages ----------------
type searchChangedMsg struct{}

// libraryChangedMsg reports a finished favourites operation. The model reads
// the new list from the controller. With Err set, a non-empty Status replaces
// the generic failure text.
type libraryChangedMsg struct {
	Status string
	Err    error
}

type favouriteSavedMsg struct {
	Title string
	Err   error
}

type detailsMsg struct {
	Key  string
	Text string
	Err  error
}

type imagePickedMsg struct {
	Path   string
	Target *library.Favourite // nil: pick the book afterwards
	Err    error
}

type shareDoneMsg struct {
	Title string
	Err   error
}

// ---------------- Search notifications ----------------

// SearchNotifier turns controller snapshots into wake-ups for the program.
// Bursts collapse into one pending wake-up; the model always reads the
// latest state.
type SearchNotifier struct {
	ch chan struct{}
}

func NewSearchNotifier() *SearchNotifier {
	return &SearchNotifier{ch: make(chan struct{}, 1)}
}

// Notify never blocks, so it is safe to pass as SearchOptions.OnChange.
func (n *SearchNotifier) Notify(library.SearchState) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *SearchNotifier) Events() <-chan struct{} { return n.ch }

func waitForSearch(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return searchChangedMsg{}
	}
}

// ---------------- Favourites ----------------
func loadLibraryCmd(c *library.FavouritesController) tea.Cmd {
	return func() tea.Msg {
		return libraryChangedMsg{Err: c.Load(context.Background())}
	}
}

func filterLibraryCmd(c *library.FavouritesController, text string) tea.Cmd {
	return func() tea.Msg {
		return libraryChangedMsg{Err: c.SetFilter(context.Background(), text)}
	}
}

func saveFavouriteCmd(c *library.FavouritesController, sr library.SearchResult) tea.Cmd {
	f := sr.ToFavourite()
	return func() tea.Msg {
		_, err := c.Add(context.Background(), f)
		return favouriteSavedMsg{Title: f.Name, Err: err}
	}
}

func updateFavouriteCmd(c *library.FavouritesController, f library.Favourite) tea.Cmd {
	return func() tea.Msg {
		if err := c.Update(context.Background(), f); err != nil {
			return libraryChangedMsg{Err: err}
		}
		return libraryChangedMsg{Status: lang.BookUpdated(f.Name)}
	}
}

func removeFavouriteCmd(c *library.FavouritesController, f library.Favourite) tea.Cmd {
	return func() tea.Msg {
		if err := c.Remove(context.Background(), f); err != nil {
			return libraryChangedMsg{Err: err}
		}
		return libraryChangedMsg{Status: lang.BookRemoved(f.Name)}
	}
}

func shareCmd(f library.Favourite) tea.Cmd {
	return func() tea.Msg {
		return shareDoneMsg{Title: f.Name, Err: library.Share(f)}
	}
}

// ---------------- Photos ----------------
func selectImageCmd(pick func(string) (string, error), start string, target *library.Favourite) tea.Cmd {
	return func() tea.Msg {
		path, err := pick(start)
		return imagePickedMsg{Path: path, Target: target, Err: err}
	}
}

// linkPhotoCmd copies the picked image into the pictures folder and points
// f's cover at the copy.
func linkPhotoCmd(c *library.FavouritesController, src, dir string, f library.Favourite) tea.Cmd {
	return func() tea.Msg {
		uri, err := library.ImportPhoto(src, dir, time.Now())
		if err != nil {
			return libraryChangedMsg{Status: lang.PhotoImportFailed(err), Err: err}
		}
		if err := c.Update(context.Background(), library.WithCover(f, uri)); err != nil {
			return libraryChangedMsg{Err: err}
		}
		return libraryChangedMsg{Status: lang.PhotoLinked(f.Name)}
	}
}

// ---------------- Details ----------------
type DescriptionFetcher interface {
	WorkDescription(ctx context.Context, key string) (string, error)
}

func fetchDetailsCmd(f DescriptionFetcher, key string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailsTimeout)
		defer cancel()
		text, err := f.WorkDescription(ctx, key)
		return detailsMsg{Key: key, Text: text, Err: err}
	}
}

// ---------------- Settings ----------------
type configSavedMsg struct{ Err error }

func saveConfigCmd() tea.Cmd {
	return func() tea.Msg {
		err := utils.SaveConfig()
		if err != nil {
			utils.Warn("save config failed", "err", err)
		}
		return configSavedMsg{Err: err}
	}
}
