package local

import (
	"context"
	"encoding/json"
	"testing"

	"notecapture-be/internal/entity"
	"notecapture-be/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*NoteRepository, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewNoteRepository(store), store
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		repo, _ := newRepo(t)
		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})

	t.Run("empty value returns empty slice", func(t *testing.T) {
		repo, store := newRepo(t)
		require.NoError(t, store.Set(ctx, NotesKey, ""))
		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("returns saved notes verbatim", func(t *testing.T) {
		repo, store := newRepo(t)
		note := entity.Note{Name: "Test Note", Description: "This is a test note."}
		data, _ := json.Marshal([]entity.Note{note})
		require.NoError(t, store.Set(ctx, NotesKey, string(data)))

		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Note{note}, notes)
	})

	t.Run("reads browser payload", func(t *testing.T) {
		repo, store := newRepo(t)
		require.NoError(t, store.Set(ctx, NotesKey, `[{"name":"a","description":"b","imageLocation":"images/x.jpg"}]`))

		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "a", notes[0].Name)
		require.NotNil(t, notes[0].ImageLocation)
		assert.Equal(t, "images/x.jpg", *notes[0].ImageLocation)
		assert.Nil(t, notes[0].Id)
	})

	t.Run("malformed content propagates", func(t *testing.T) {
		repo, store := newRepo(t)
		require.NoError(t, store.Set(ctx, NotesKey, "not json"))

		_, err := repo.FindAll(ctx)
		assert.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a new note", func(t *testing.T) {
		repo, _ := newRepo(t)
		note := entity.Note{Name: "New Note", Description: "This is a new note."}

		require.NoError(t, repo.Save(ctx, note))

		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Note{note}, notes)
	})

	t.Run("appends to existing notes", func(t *testing.T) {
		repo, store := newRepo(t)
		note1 := entity.Note{Name: "Note 1", Description: "First note."}
		note2 := entity.Note{Name: "Note 2", Description: "Second note."}
		data, _ := json.Marshal([]entity.Note{note1})
		require.NoError(t, store.Set(ctx, NotesKey, string(data)))

		require.NoError(t, repo.Save(ctx, note2))

		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Note{note1, note2}, notes)
	})

	t.Run("accepts an empty note", func(t *testing.T) {
		repo, _ := newRepo(t)
		require.NoError(t, repo.Save(ctx, entity.Note{}))

		notes, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Note{{}}, notes)
	})

	t.Run("duplicates are kept in order", func(t *testing.T) {
		repo, _ := newRepo(t)
		note := entity.Note{Name: "Same", Description: "Same"}
		var want []entity.Note
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Save(ctx, note))
			want = append(want, note)

			notes, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, notes)
		}
	})

	t.Run("malformed content is not overwritten", func(t *testing.T) {
		repo, store := newRepo(t)
		require.NoError(t, store.Set(ctx, NotesKey, "{"))

		assert.Error(t, repo.Save(ctx, entity.Note{Name: "a", Description: "b"}))
		raw, _, _ := store.Get(ctx, NotesKey)
		assert.Equal(t, "{", raw)
	})
}
