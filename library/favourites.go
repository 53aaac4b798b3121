package library

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pocket_library/utils"
)

// FavouriteStore is the persistence behind a FavouritesController.
type FavouriteStore interface {
	Insert(ctx context.Context, f Favourite) (int64, error)
	Update(ctx context.Context, f Favourite) error
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]Favourite, error)
	Search(ctx context.Context, q string) ([]Favourite, error)
}

// LibraryState is a snapshot of the library tab. Listed is the filter that
// produced Entries; after a write it is blank while Query keeps the text.
type LibraryState struct {
	Entries      []Favourite
	Query        string
	Listed       string
	ScrollIndex  int
	ScrollOffset int
}

// FavouritesController owns the saved list and its filter. Every method runs
// against the store one at a time.
type FavouritesController struct {
	store    FavouriteStore
	onChange func(LibraryState)

	mu    sync.Mutex
	state LibraryState
}

func NewFavouritesController(store FavouriteStore, onChange func(LibraryState)) *FavouritesController {
	return &FavouritesController{store: store, onChange: onChange, state: LibraryState{Entries: []Favourite{}}}
}

func (c *FavouritesController) State() LibraryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load reads the list for the current filter.
func (c *FavouritesController) Load(ctx context.Context) error {
	c.mu.Lock()
	err := c.reloadLocked(ctx, c.state.Query)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.publish(snap)
	return nil
}

// Add saves f and reloads the full list. The stored entry is returned.
func (c *FavouritesController) Add(ctx context.Context, f Favourite) (Favourite, error) {
	err := c.mutate(ctx, func() error {
		id, err := c.store.Insert(ctx, f)
		if err != nil {
			return err
		}
		f.ID = id
		utils.Info("favourite added", "id", id, "title", f.Name)
		return nil
	})
	if f.ID == 0 {
		return Favourite{}, err
	}
	return f, err
}

// Update replaces the entry with f's id and reloads the full list.
func (c *FavouritesController) Update(ctx context.Context, f Favourite) error {
	return c.mutate(ctx, func() error {
		if err := c.store.Update(ctx, f); err != nil {
			return err
		}
		utils.Info("favourite updated", "id", f.ID, "title", f.Name)
		return nil
	})
}

// Remove deletes f by id and reloads the full list.
func (c *FavouritesController) Remove(ctx context.Context, f Favourite) error {
	return c.mutate(ctx, func() error {
		if err := c.store.Delete(ctx, f.ID); err != nil {
			return err
		}
		utils.Info("favourite removed", "id", f.ID, "title", f.Name)
		return nil
	})
}

// SetFilter records text and lists the entries whose title or author contains
// it. Blank text lists everything.
func (c *FavouritesController) SetFilter(ctx context.Context, text string) error {
	c.mu.Lock()
	err := c.reloadLocked(ctx, text)
	if err == nil {
		c.state.Query = text
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.publish(snap)
	return nil
}

// SaveScrollPosition records the list position. It reports whether anything
// changed.
func (c *FavouritesController) SaveScrollPosition(index, offset int) bool {
	c.mu.Lock()
	if c.state.ScrollIndex == index && c.state.ScrollOffset == offset {
		c.mu.Unlock()
		return false
	}
	c.state.ScrollIndex, c.state.ScrollOffset = index, offset
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return true
}

// mutate runs one write, then reloads the unfiltered list. The filter text
// is kept.
func (c *FavouritesController) mutate(ctx context.Context, write func() error) error {
	c.mu.Lock()
	if err := write(); err != nil {
		c.mu.Unlock()
		return err
	}
	err := c.reloadLocked(ctx, "")
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("reload library: %w", err)
	}
	c.publish(snap)
	return nil
}

func (c *FavouritesController) reloadLocked(ctx context.Context, filter string) error {
	var (
		entries []Favourite
		err     error
	)
	if strings.TrimSpace(filter) == "" {
		entries, err = c.store.All(ctx)
	} else {
		entries, err = c.store.Search(ctx, strings.TrimSpace(filter))
	}
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Favourite{}
	}
	c.state.Entries = entries
	c.state.Listed = filter
	return nil
}

func (c *FavouritesController) snapshotLocked() LibraryState {
	s := c.state
	s.Entries = append([]Favourite{}, s.Entries...)
	return s
}

func (c *FavouritesController) publish(s LibraryState) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
