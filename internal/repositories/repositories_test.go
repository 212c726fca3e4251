package repositories_test

import (
	"context"
	"testing"
	"time"

	"dailydiet/internal/config"
	"dailydiet/internal/database"
	"dailydiet/internal/migrations"
	"dailydiet/internal/models"
	"dailydiet/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the real schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, migrations.Up(context.Background(), sqlDB, "sqlite3", nil))
	return db
}

func strPtr(s string) *string { return &s }

func TestGORMUserRepository_CreateAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	session := uuid.NewString()
	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", SessionID: &session}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	bySession, err := repo.GetBySessionID(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, bySession.ID)

	_, err = repo.GetBySessionID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "a"}))
	err := repo.Create(ctx, &models.User{Name: "Other", Email: "ana@example.com", PasswordHash: "b"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}

func TestGORMUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "old"}
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "Ana Maria"
	user.PasswordHash = "new"
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", stored.Name)
	assert.Equal(t, "new", stored.PasswordHash)

	err = repo.Update(ctx, &models.User{ID: uuid.NewString(), Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMMealRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMealRepository(newTestDB(t))
	session := uuid.NewString()

	meal := &models.Meal{
		SessionID:   session,
		Name:        "Breakfast",
		Description: "Oats",
		IsOnTheDiet: true,
		DateDiet:    "2024-01-02T08:00:00.000000000Z",
	}
	require.NoError(t, repo.Create(ctx, meal))
	require.NotEmpty(t, meal.ID)

	stored, err := repo.GetByID(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", stored.Name)
	assert.Equal(t, "Oats", stored.Description)
	assert.True(t, stored.IsOnTheDiet)
	assert.Equal(t, "2024-01-02T08:00:00.000000000Z", stored.DateDiet)
	assert.Nil(t, stored.UserID)

	list, err := repo.ListBySession(ctx, session)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repo.ListBySession(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, meal.ID))
	_, err = repo.GetByID(ctx, meal.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, meal.ID), repositories.ErrNotFound)
}

func TestGORMMealRepository_UpdateScoped(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMMealRepository(newTestDB(t))
	session := uuid.NewString()

	meal := &models.Meal{SessionID: session, Name: "Lunch", Description: "Pasta", DateDiet: "2024-01-02T12:00:00.000000000Z"}
	require.NoError(t, repo.Create(ctx, meal))
	before := meal.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	fields := repositories.MealFields{Name: "Dinner", Description: "Salad", DateDiet: "2024-01-02T19:00:00.000000000Z", IsOnTheDiet: true}
	require.NoError(t, repo.UpdateScoped(ctx, meal.ID, session, fields))

	stored, err := repo.GetByID(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", stored.Name)
	assert.Equal(t, "Salad", stored.Description)
	assert.True(t, stored.IsOnTheDiet)
	assert.Equal(t, session, stored.SessionID)
	assert.True(t, stored.UpdatedAt.After(before))

	// A different session never matches.
	err = repo.UpdateScoped(ctx, meal.ID, uuid.NewString(), fields)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMMealRepository_UserQueries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	meals := repositories.NewGORMMealRepository(db)

	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, user))
	session := uuid.NewString()

	// Inserted out of chronological order.
	dates := []struct {
		date   string
		inDiet bool
	}{
		{"2024-01-03T12:00:00.000000000Z", false},
		{"2024-01-01T12:00:00.000000000Z", true},
		{"2024-01-02T12:00:00.000000000Z", true},
		{"2024-01-04T12:00:00.000000000Z", true},
	}
	for _, d := range dates {
		require.NoError(t, meals.Create(ctx, &models.Meal{
			SessionID: session, UserID: strPtr(user.ID), Name: "m", Description: "d",
			DateDiet: d.date, IsOnTheDiet: d.inDiet,
		}))
	}
	// Anonymous meal of the same session is not counted.
	require.NoError(t, meals.Create(ctx, &models.Meal{SessionID: session, Name: "m", Description: "d", DateDiet: dates[0].date}))

	ordered, err := meals.ListByUserChronological(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 4)
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].DateDiet, ordered[i].DateDiet)
	}

	counts, err := meals.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, repositories.MealCounts{Count: 4, InDiet: 3}, counts)

	none, err := meals.CountByUser(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, repositories.MealCounts{}, none)
}
