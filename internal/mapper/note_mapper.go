package mapper

import (
	"notecapture-be/internal/dto"
	"notecapture-be/internal/entity"
	"notecapture-be/internal/model"

	"github.com/google/uuid"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	id := n.Id
	return &entity.Note{
		Id:            &id,
		Name:          n.Name,
		Description:   n.Description,
		ImageLocation: n.ImageLocation,
		UserId:        n.UserId,
		CreatedAt:     n.CreatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	// Zero id lets the database default fill it in.
	var id uuid.UUID
	if n.Id != nil {
		id = *n.Id
	}

	return &model.Note{
		Id:            id,
		Name:          n.Name,
		Description:   n.Description,
		ImageLocation: n.ImageLocation,
		UserId:        n.UserId,
		CreatedAt:     n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	if n == nil {
		return nil
	}

	res := &dto.NoteResponse{
		Id:            n.Id,
		Name:          n.Name,
		Description:   n.Description,
		ImageLocation: n.ImageLocation,
	}
	if !n.CreatedAt.IsZero() {
		createdAt := n.CreatedAt
		res.CreatedAt = &createdAt
	}
	return res
}

func (m *NoteMapper) ToResponses(notes []entity.Note) []*dto.NoteResponse {
	res := make([]*dto.NoteResponse, len(notes))
	for i := range notes {
		res[i] = m.ToResponse(&notes[i])
	}
	return res
}
