package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/models"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
)

type mockClassRepo struct {
	classes []models.ClassBlock
}

func (m *mockClassRepo) ListByUserID(ctx context.Context, userID string) ([]models.ClassBlock, error) {
	return m.classes, nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, userID, id string) (*models.ClassBlock, error) {
	for i := range m.classes {
		if m.classes[i].ID == id {
			return &m.classes[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.ClassBlock) error {
	m.classes = append(m.classes, *class)
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.ClassBlock) error {
	for i := range m.classes {
		if m.classes[i].ID == class.ID {
			m.classes[i] = *class
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockClassRepo) Delete(ctx context.Context, userID, id string) error {
	for i := range m.classes {
		if m.classes[i].ID == id {
			m.classes = append(m.classes[:i], m.classes[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockRegularBlockRepo struct {
	blocks []models.RegularBlock
}

func (m *mockRegularBlockRepo) ListByUserID(ctx context.Context, userID string) ([]models.RegularBlock, error) {
	return m.blocks, nil
}

func (m *mockRegularBlockRepo) FindByID(ctx context.Context, userID, id string) (*models.RegularBlock, error) {
	for i := range m.blocks {
		if m.blocks[i].ID == id {
			return &m.blocks[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockRegularBlockRepo) Create(ctx context.Context, block *models.RegularBlock) error {
	m.blocks = append(m.blocks, *block)
	return nil
}

func (m *mockRegularBlockRepo) Update(ctx context.Context, block *models.RegularBlock) error {
	return nil
}

func (m *mockRegularBlockRepo) Delete(ctx context.Context, userID, id string) error {
	return sql.ErrNoRows
}

func newFixedScheduleService(classes *mockClassRepo, blocks *mockRegularBlockRepo) *FixedScheduleService {
	return NewFixedScheduleService(classes, blocks, validator.New(), zap.NewNop())
}

func TestCreateClass(t *testing.T) {
	classes := &mockClassRepo{}
	svc := newFixedScheduleService(classes, &mockRegularBlockRepo{})

	class, err := svc.CreateClass(context.Background(), "u1", dto.CreateClassRequest{
		Name: "Algorithms", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", class.Name)
	assert.Len(t, classes.classes, 1)
}

func TestCreateClassRejectsOverlapSameWeekday(t *testing.T) {
	classes := &mockClassRepo{classes: []models.ClassBlock{
		{ID: "c1", UserID: "u1", Name: "Algorithms", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:30"},
	}}
	svc := newFixedScheduleService(classes, &mockRegularBlockRepo{})

	_, err := svc.CreateClass(context.Background(), "u1", dto.CreateClassRequest{
		Name: "Databases", DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOverlapDetected.Code, appErrors.FromError(err).Code)
	assert.Len(t, classes.classes, 1)
}

func TestCreateClassAllowsSameTimesOtherWeekday(t *testing.T) {
	classes := &mockClassRepo{classes: []models.ClassBlock{
		{ID: "c1", UserID: "u1", Name: "Algorithms", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:30"},
	}}
	svc := newFixedScheduleService(classes, &mockRegularBlockRepo{})

	_, err := svc.CreateClass(context.Background(), "u1", dto.CreateClassRequest{
		Name: "Databases", DayOfWeek: 2, StartTime: "10:00", EndTime: "11:30",
	})
	assert.NoError(t, err)
}

func TestCreateClassChecksRegularBlocksToo(t *testing.T) {
	blocks := &mockRegularBlockRepo{blocks: []models.RegularBlock{
		{ID: "b1", UserID: "u1", Name: "Work", DayOfWeek: 3, StartTime: "14:00", EndTime: "18:00"},
	}}
	svc := newFixedScheduleService(&mockClassRepo{}, blocks)

	_, err := svc.CreateClass(context.Background(), "u1", dto.CreateClassRequest{
		Name: "Seminar", DayOfWeek: 3, StartTime: "17:00", EndTime: "19:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOverlapDetected.Code, appErrors.FromError(err).Code)
}

func TestCreateClassInvalidTimeFormat(t *testing.T) {
	svc := newFixedScheduleService(&mockClassRepo{}, &mockRegularBlockRepo{})

	_, err := svc.CreateClass(context.Background(), "u1", dto.CreateClassRequest{
		Name: "Algorithms", DayOfWeek: 1, StartTime: "10am", EndTime: "11:30",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateClassDoesNotConflictWithItself(t *testing.T) {
	classes := &mockClassRepo{classes: []models.ClassBlock{
		{ID: "c1", UserID: "u1", Name: "Algorithms", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:30"},
	}}
	svc := newFixedScheduleService(classes, &mockRegularBlockRepo{})

	newEnd := "12:00"
	class, err := svc.UpdateClass(context.Background(), "u1", "c1", dto.UpdateClassRequest{EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "12:00", class.EndTime)
}

func TestUpdateClassNotFound(t *testing.T) {
	svc := newFixedScheduleService(&mockClassRepo{}, &mockRegularBlockRepo{})

	name := "Renamed"
	_, err := svc.UpdateClass(context.Background(), "u1", "missing", dto.UpdateClassRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateRegularBlockRejectsInvertedInterval(t *testing.T) {
	svc := newFixedScheduleService(&mockClassRepo{}, &mockRegularBlockRepo{})

	_, err := svc.CreateRegularBlock(context.Background(), "u1", dto.CreateRegularBlockRequest{
		Name: "Gym", BlockType: "sport", DayOfWeek: 2, StartTime: "19:00", EndTime: "18:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
