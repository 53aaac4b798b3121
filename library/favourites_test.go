package library

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavourites(t *testing.T) (*FavouritesController, *[]LibraryState) {
	t.Helper()
	var published []LibraryState
	c := NewFavouritesController(tempStore(t), func(s LibraryState) {
		published = append(published, s)
	})
	require.NoError(t, c.Load(context.Background()))
	return c, &published
}

func TestFavouritesAddShowsEntryOnceInTitleOrder(t *testing.T) {
	c, published := newFavourites(t)
	ctx := context.Background()

	_, err := c.Add(ctx, Favourite{Name: "Foundation"})
	require.NoError(t, err)
	_, err = c.Add(ctx, Favourite{Name: "Zen"})
	require.NoError(t, err)
	added, err := c.Add(ctx, Favourite{Name: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	st := c.State()
	assert.Equal(t, []string{"Dune", "Foundation", "Zen"}, titles(st.Entries))
	count := 0
	for _, e := range st.Entries {
		if e.ID == added.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, *published, 4, "load plus one snapshot per add")
}

func TestFavouritesRemoveExcludesID(t *testing.T) {
	c, _ := newFavourites(t)
	ctx := context.Background()

	dune, err := c.Add(ctx, Favourite{Name: "Dune"})
	require.NoError(t, err)
	_, err = c.Add(ctx, Favourite{Name: "Emma"})
	require.NoError(t, err)

	require.NoError(t, c.Remove(ctx, dune))

	for _, e := range c.State().Entries {
		assert.NotEqual(t, dune.ID, e.ID)
	}
	assert.Equal(t, []string{"Emma"}, titles(c.State().Entries))
}

func TestFavouritesUpdateReordersByTitle(t *testing.T) {
	c, _ := newFavourites(t)
	ctx := context.Background()

	a, err := c.Add(ctx, Favourite{Name: "Alpha"})
	require.NoError(t, err)
	_, err = c.Add(ctx, Favourite{Name: "Beta"})
	require.NoError(t, err)

	a.Name = "Omega"
	a.Year = 2001
	require.NoError(t, c.Update(ctx, a))

	st := c.State()
	assert.Equal(t, []string{"Beta", "Omega"}, titles(st.Entries))
	assert.Equal(t, 2001, st.Entries[1].Year)
}

func TestFavouritesMissingIDErrors(t *testing.T) {
	c, published := newFavourites(t)
	ctx := context.Background()
	before := len(*published)

	assert.ErrorIs(t, c.Update(ctx, Favourite{ID: 99, Name: "Ghost"}), ErrNotFound)
	assert.ErrorIs(t, c.Remove(ctx, Favourite{ID: 99}), ErrNotFound)
	assert.Len(t, *published, before, "failed writes publish nothing")
}

func TestFavouritesSetFilter(t *testing.T) {
	c, _ := newFavourites(t)
	ctx := context.Background()

	for _, f := range []Favourite{
		{Name: "Wealth of Nations", Author: "Adam Smith"},
		{Name: "Dune", Author: "Frank Herbert"},
		{Name: "Smithsonian Guide"},
	} {
		_, err := c.Add(ctx, f)
		require.NoError(t, err)
	}

	require.NoError(t, c.SetFilter(ctx, "smith"))
	st := c.State()
	assert.Equal(t, "smith", st.Query)
	assert.Equal(t, []string{"Smithsonian Guide", "Wealth of Nations"}, titles(st.Entries))

	require.NoError(t, c.SetFilter(ctx, ""))
	st = c.State()
	assert.Equal(t, "", st.Query)
	assert.Equal(t, []string{"Dune", "Smithsonian Guide", "Wealth of Nations"}, titles(st.Entries))
}

func TestFavouritesSetFilterExample(t *testing.T) {
	c, _ := newFavourites(t)
	ctx := context.Background()

	_, err := c.Add(ctx, Favourite{Name: "Dune"})
	require.NoError(t, err)
	_, err = c.Add(ctx, Favourite{Name: "Foundation"})
	require.NoError(t, err)

	require.NoError(t, c.SetFilter(ctx, "found"))
	assert.Equal(t, []string{"Foundation"}, titles(c.State().Entries))
}

func TestFavouritesMutationReloadsFullListKeepingFilter(t *testing.T) {
	c, _ := newFavourites(t)
	ctx := context.Background()

	_, err := c.Add(ctx, Favourite{Name: "Dune"})
	require.NoError(t, err)
	require.NoError(t, c.SetFilter(ctx, "dune"))

	_, err = c.Add(ctx, Favourite{Name: "Foundation"})
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, "dune", st.Query)
	assert.Empty(t, st.Listed, "entries are the unfiltered list")
	assert.Equal(t, []string{"Dune", "Foundation"}, titles(st.Entries))

	require.NoError(t, c.SetFilter(ctx, "dune"))
	st = c.State()
	assert.Equal(t, "dune", st.Listed)
	assert.Equal(t, []string{"Dune"}, titles(st.Entries))
}

func TestFavouritesSaveScrollPosition(t *testing.T) {
	c, published := newFavourites(t)
	before := len(*published)

	assert.True(t, c.SaveScrollPosition(4, 1))
	assert.False(t, c.SaveScrollPosition(4, 1), "unchanged position is not saved again")
	assert.True(t, c.SaveScrollPosition(5, 1))

	st := c.State()
	assert.Equal(t, 5, st.ScrollIndex)
	assert.Equal(t, 1, st.ScrollOffset)
	assert.Len(t, *published, before+2)
}

type failingStore struct {
	FavouriteStore
	err error
}

func (f failingStore) All(ctx context.Context) ([]Favourite, error) { return nil, f.err }

func TestFavouritesStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	c := NewFavouritesController(failingStore{err: boom}, nil)

	assert.ErrorIs(t, c.Load(context.Background()), boom)
	assert.NotNil(t, c.State().Entries)
	assert.Empty(t, c.State().Entries)
}
