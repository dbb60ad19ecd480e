package repository

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

func TestStorage_ListCourses(t *testing.T) {
	type args struct {
		ctx    context.Context
		limit  int
		offset int
	}

	tests := []struct {
		name      string
		args      args
		wantCount int
		wantErr   bool
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful list courses with pagination",
			args: args{
				ctx:    context.Background(),
				limit:  10,
				offset: 0,
			},
			wantCount: 3,
			wantErr:   false,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateCourse(t, "Go for beginners", "programming", false, 49.90)
				factory.CreateCourse(t, "SQL basics", "databases", true, 0)
				factory.CreateCourse(t, "Advanced Go", "programming", false, 99.90)
			},
		},
		{
			name: "offset skips newest courses",
			args: args{
				ctx:    context.Background(),
				limit:  10,
				offset: 2,
			},
			wantCount: 1,
			wantErr:   false,
			setup: func(t *testing.T, factory *TestDataFactory) {
				for i := range 3 {
					factory.CreateCourse(t, "Course "+strconv.Itoa(i), "programming", true, 0)
				}
			},
		},
		{
			name: "empty catalog",
			args: args{
				ctx:    context.Background(),
				limit:  10,
				offset: 0,
			},
			wantCount: 0,
			wantErr:   false,
			setup:     func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.ListCourses(tt.args.ctx, tt.args.limit, tt.args.offset)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tt.wantCount)
			}
		})
	}
}

func TestStorage_SetCourseAccessKind(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "student")
	courseID := factory.CreateCourse(t, "Go for beginners", "programming", false, 49.90)

	// Записи ещё нет
	kind, err := storage.GetCourseAccessKind(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Empty(t, kind)

	require.NoError(t, storage.SetCourseAccessKind(ctx, userUID, courseID, "allowed"))
	kind, err = storage.GetCourseAccessKind(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Equal(t, "allowed", kind)

	// Повторная запись заменяет вид доступа
	require.NoError(t, storage.SetCourseAccessKind(ctx, userUID, courseID, "blocked"))
	kind, err = storage.GetCourseAccessKind(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Equal(t, "blocked", kind)

	removed, err := storage.RemoveCourseAccessKind(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	kind, err = storage.GetCourseAccessKind(ctx, userUID, courseID)
	require.NoError(t, err)
	assert.Empty(t, kind)
}

func TestStorage_InsertWebhookEvent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	fresh, err := storage.InsertWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, fresh)

	// Повторная доставка того же события
	fresh, err = storage.InsertWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, fresh)

	// После снятия отметки событие снова считается новым
	require.NoError(t, storage.RemoveWebhookEvent(ctx, "evt_1"))
	fresh, err = storage.InsertWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestStorage_FindCurrentSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "student")

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	oldID := factory.CreateSubscription(t, userUID, models.SubscriptionStatusActive,
		start, start.AddDate(0, 1, 0), start)
	factory.CreateSubscription(t, userUID, models.SubscriptionStatusCanceled,
		start.AddDate(0, 1, 0), start.AddDate(0, 2, 0), start.AddDate(0, 1, 0))
	newID := factory.CreateSubscription(t, userUID, models.SubscriptionStatusActive,
		start.AddDate(0, 2, 0), start.AddDate(0, 3, 0), start.AddDate(0, 2, 0))

	got, err := storage.FindCurrentSubscription(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, newID, got.ID)
	assert.NotEqual(t, oldID, got.ID)
	assert.Equal(t, models.SubscriptionStatusActive, got.Status)

	// Перевод в past_due убирает подписку из текущих
	updated, err := storage.UpdateSubscriptionStatus(ctx, newID, models.SubscriptionStatusPastDue)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err = storage.FindCurrentSubscription(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, oldID, got.ID)
}

func TestStorage_UpdatePaymentStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "student")
	factory.CreatePayment(t, userUID, "pay_1", models.BillingTypePix, 29.90, models.PaymentStatusPending)

	updated, err := storage.UpdatePaymentStatus(ctx, "pay_1", models.PaymentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := storage.GetPaymentByGatewayID(ctx, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusConfirmed, got.Status)

	updated, err = storage.UpdatePaymentStatus(ctx, "pay_unknown", models.PaymentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestStorage_UserStats(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "student")

	// Без записи возвращается нулевая статистика
	stats, err := storage.GetUserStats(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Points)
	assert.Nil(t, stats.LastReadDate)

	lastRead := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.UpsertUserStats(ctx, models.UserStats{
		UserUID:       userUID,
		Points:        42,
		CurrentStreak: 3,
		LongestStreak: 5,
		LastReadDate:  &lastRead,
	}))

	stats, err = storage.GetUserStats(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Points)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 5, stats.LongestStreak)
	require.NotNil(t, stats.LastReadDate)
	assert.Equal(t, lastRead.Format("2006-01-02"), stats.LastReadDate.Format("2006-01-02"))
}

func TestStorage_GrantAchievement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "student")

	granted, err := storage.GrantAchievement(ctx, userUID, "first_steps")
	require.NoError(t, err)
	assert.True(t, granted)

	// Повторная выдача игнорируется
	granted, err = storage.GrantAchievement(ctx, userUID, "first_steps")
	require.NoError(t, err)
	assert.False(t, granted)

	earned, err := storage.ListUserAchievements(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "first_steps", earned[0].Code)
}
