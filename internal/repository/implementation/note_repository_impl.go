package implementation

import (
	"context"
	"errors"

	"notecapture-be/internal/entity"
	"notecapture-be/internal/mapper"
	"notecapture-be/internal/model"
	"notecapture-be/internal/repository/contract"
	"notecapture-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteMapper
}

func NewNoteRepository(db *gorm.DB) *NoteRepositoryImpl {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

var _ contract.NoteRepository = (*NoteRepositoryImpl)(nil)

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) List(ctx context.Context, userId uuid.UUID) ([]*entity.Note, error) {
	return r.FindAll(ctx,
		specification.NoteOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
	)
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

// Delete finds and hard-deletes the note in one transaction so the returned
// record is exactly the one removed.
func (r *NoteRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Note, error) {
	var deleted model.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := r.applySpecifications(tx,
			specification.ByID{ID: id},
			specification.NoteOwnedByUser{UserID: userId},
		)
		if err := query.First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return contract.ErrNoteNotFound
			}
			return err
		}
		return tx.Delete(&model.Note{}, "id = ?", deleted.Id).Error
	})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&deleted), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
