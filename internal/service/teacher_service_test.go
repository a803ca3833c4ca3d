package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/models"
	appErrors "github.com/noah-isme/tutor-api/pkg/errors"
)

type mockTeacherRepo struct {
	items     map[int]models.Teacher
	nextID    int
	listErr   error
	findCalls int
	deleted   []int
}

func newMockTeacherRepo(teachers ...models.Teacher) *mockTeacherRepo {
	m := &mockTeacherRepo{items: make(map[int]models.Teacher), nextID: 1}
	for _, t := range teachers {
		m.items[t.ID] = t
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}
	return m
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]models.Teacher, 0, len(m.items))
	for id := 1; id < m.nextID; id++ {
		if t, ok := m.items[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int) (*models.Teacher, error) {
	m.findCalls++
	if t, ok := m.items[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) Create(ctx context.Context, input models.CreateTeacher) (*models.Teacher, error) {
	t := models.Teacher{ID: m.nextID, Name: input.Name, PictureURL: input.PictureURL, Profile: input.Profile}
	m.items[t.ID] = t
	m.nextID++
	return &t, nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, id int, patch models.UpdateTeacher) (*models.Teacher, error) {
	current, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	merged := patch.Apply(current)
	m.items[id] = merged
	return &merged, nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return 1, nil
}

// blockingTeacherRepo parks the first FindByID after it has read the row,
// until release is closed.
type blockingTeacherRepo struct {
	*mockTeacherRepo
	mu      sync.Mutex
	once    sync.Once
	reading chan struct{}
	release chan struct{}
}

func newBlockingTeacherRepo(teachers ...models.Teacher) *blockingTeacherRepo {
	return &blockingTeacherRepo{
		mockTeacherRepo: newMockTeacherRepo(teachers...),
		reading:         make(chan struct{}),
		release:         make(chan struct{}),
	}
}

func (b *blockingTeacherRepo) FindByID(ctx context.Context, id int) (*models.Teacher, error) {
	b.mu.Lock()
	teacher, err := b.mockTeacherRepo.FindByID(ctx, id)
	b.mu.Unlock()

	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.reading)
		<-b.release
	}
	return teacher, err
}

func (b *blockingTeacherRepo) Update(ctx context.Context, id int, patch models.UpdateTeacher) (*models.Teacher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mockTeacherRepo.Update(ctx, id, patch)
}

func TestTeacherServiceListEmptyIsNotFound(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil, zap.NewNop())

	_, err := svc.List(context.Background())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.KindNotFound, appErr.Kind)
	assert.Equal(t, "No teachers found", appErr.Message)
}

func TestTeacherServiceListDatabaseFailure(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.listErr = errors.New("connection reset")
	svc := NewTeacherService(repo, nil, nil, nil, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrDatabase)
}

func TestTeacherServiceCreateAndGet(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil, nil)

	created, err := svc.Create(context.Background(), models.CreateTeacher{Name: " A ", PictureURL: "u", Profile: "p"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, " A ", created.Name)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestTeacherServiceCreateValidation(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateTeacher{PictureURL: "u", Profile: "p"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.KindInvalidInput, appErr.Kind)
	assert.Equal(t, "field name is required", appErr.Message)
}

func TestTeacherServiceRejectsBlankText(t *testing.T) {
	existing := models.Teacher{ID: 5, Name: "X", PictureURL: "u", Profile: "p"}
	repo := newMockTeacherRepo(existing)
	svc := NewTeacherService(repo, nil, nil, nil, nil)
	blank := "   "

	_, err := svc.Create(context.Background(), models.CreateTeacher{Name: blank, PictureURL: "u", Profile: "p"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.KindInvalidInput, appErr.Kind)
	assert.Equal(t, "field name must not be blank", appErr.Message)

	_, err = svc.Update(context.Background(), 5, models.UpdateTeacher{Name: &blank})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.KindInvalidInput, appErr.Kind)
	assert.Equal(t, "field name must not be blank", appErr.Message)

	empty := ""
	_, err = svc.Update(context.Background(), 5, models.UpdateTeacher{Profile: &empty})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "field profile must not be blank", appErr.Message)

	assert.Equal(t, existing, repo.items[5])
}

func TestTeacherServiceGetMissing(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Teacher id not found", appErr.Message)
}

func TestTeacherServiceUpdateEmptyPatchKeepsRecord(t *testing.T) {
	existing := models.Teacher{ID: 5, Name: "X", PictureURL: "u", Profile: "p"}
	svc := NewTeacherService(newMockTeacherRepo(existing), nil, nil, nil, nil)

	updated, err := svc.Update(context.Background(), 5, models.UpdateTeacher{})
	require.NoError(t, err)
	assert.Equal(t, existing, *updated)
}

func TestTeacherServiceUpdateMissing(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil, nil)
	name := "Y"

	_, err := svc.Update(context.Background(), 9, models.UpdateTeacher{Name: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTeacherServiceDeleteReportsRowCount(t *testing.T) {
	repo := newMockTeacherRepo(models.Teacher{ID: 1, Name: "A"})
	svc := NewTeacherService(repo, nil, nil, nil, nil)

	msg, err := svc.Delete(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, "Deleted 0 record(s)", msg)

	msg, err = svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 record(s)", msg)
	assert.Equal(t, []int{1}, repo.deleted)
}

func TestTeacherServiceGetUsesCache(t *testing.T) {
	repo := newMockTeacherRepo(models.Teacher{ID: 3, Name: "Cached"})
	store := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, 0, nil, true)
	svc := NewTeacherService(repo, cache, metrics, nil, nil)

	_, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Name)
	assert.Equal(t, 1, repo.findCalls)

	name := "Renamed"
	_, err = svc.Update(context.Background(), 3, models.UpdateTeacher{Name: &name})
	require.NoError(t, err)
	got, err = svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 2, repo.findCalls)
}

func TestTeacherServiceSlowReadDoesNotCacheOverUpdate(t *testing.T) {
	repo := newBlockingTeacherRepo(models.Teacher{ID: 3, Name: "X", PictureURL: "u", Profile: "p"})
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, true)
	svc := NewTeacherService(repo, cache, nil, nil, nil)
	ctx := context.Background()

	type result struct {
		teacher *models.Teacher
		err     error
	}
	done := make(chan result, 1)
	go func() {
		teacher, err := svc.Get(ctx, 3)
		done <- result{teacher, err}
	}()

	<-repo.reading
	name := "Y"
	_, err := svc.Update(ctx, 3, models.UpdateTeacher{Name: &name})
	require.NoError(t, err)
	close(repo.release)

	slow := <-done
	require.NoError(t, slow.err)
	assert.Equal(t, "X", slow.teacher.Name)

	got, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Y", got.Name)
}
