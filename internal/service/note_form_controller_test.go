package service

import (
	"context"
	"sync"
	"testing"

	"notecapture-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoteFormControllerEditing(t *testing.T) {
	var mu sync.Mutex
	var drafts []entity.Note
	form := NewNoteFormController(uuid.New(), &mockNoteCreator{}, &recordingLogger{}, func(d entity.Note) {
		mu.Lock()
		defer mu.Unlock()
		drafts = append(drafts, d)
	})

	form.SetName("Milk")
	form.SetName("Oat milk")
	form.SetDescription("1 carton")
	assert.True(t, form.AttachImage("images/first.jpg"))
	assert.True(t, form.AttachImage("images/second.jpg"))
	assert.False(t, form.AttachImage("victim.txt"))
	assert.False(t, form.AttachImage("images/"))

	draft := form.Draft()
	assert.Equal(t, "Oat milk", draft.Name)
	assert.Equal(t, "1 carton", draft.Description)
	require.NotNil(t, draft.ImageLocation)
	assert.Equal(t, "images/second.jpg", *draft.ImageLocation)

	mu.Lock()
	assert.Len(t, drafts, 5)
	mu.Unlock()
}

func TestNoteFormControllerSubmitInvalid(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
	}{
		{name: "empty", title: "", description: ""},
		{name: "missing description", title: "Milk", description: ""},
		{name: "missing name", title: "", description: "2 litres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			creator := &mockNoteCreator{}
			form := NewNoteFormController(uuid.New(), creator, &recordingLogger{}, nil)
			form.SetName(tc.title)
			form.SetDescription(tc.description)

			assert.False(t, form.Submit(context.Background()))
			form.Wait()

			creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, tc.title, form.Draft().Name)
			assert.Equal(t, tc.description, form.Draft().Description)
		})
	}
}

func TestNoteFormControllerSubmit(t *testing.T) {
	userId := uuid.New()
	image := "images/x-milk.jpg"
	expected := entity.Note{Name: "Milk", Description: "2 litres", ImageLocation: &image}

	creator := &mockNoteCreator{}
	creator.On("Create", mock.Anything, userId, expected).Return(&expected, nil).Once()

	form := NewNoteFormController(userId, creator, &recordingLogger{}, nil)
	form.SetName("Milk")
	form.SetDescription("2 litres")
	require.True(t, form.AttachImage(image))

	assert.True(t, form.Submit(context.Background()))
	assert.Equal(t, entity.Note{}, form.Draft())

	form.Wait()
	creator.AssertExpectations(t)
}

func TestNoteFormControllerSubmitResetsBeforeCreateFinishes(t *testing.T) {
	userId := uuid.New()
	release := make(chan struct{})

	creator := &mockNoteCreator{}
	creator.On("Create", mock.Anything, userId, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil, assert.AnError).Once()

	log := &recordingLogger{}
	form := NewNoteFormController(userId, creator, log, nil)
	form.SetName("Milk")
	form.SetDescription("2 litres")

	assert.True(t, form.Submit(context.Background()))
	assert.Equal(t, entity.Note{}, form.Draft())

	close(release)
	form.Wait()

	errs := log.byLevel("ERROR")
	require.Len(t, errs, 1)
	assert.Equal(t, "Error creating note", errs[0].message)
}
