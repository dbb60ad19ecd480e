package gamification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) CreateReadingEvent(ctx context.Context, event models.ReadingEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func (m *RepositoryMock) GetUserStats(ctx context.Context, userUID string) (*models.UserStats, error) {
	args := m.Called(ctx, userUID)
	stats, _ := args.Get(0).(*models.UserStats)
	return stats, args.Error(1)
}

func (m *RepositoryMock) UpsertUserStats(ctx context.Context, stats models.UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *RepositoryMock) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	args := m.Called(ctx)
	achievements, _ := args.Get(0).([]*models.Achievement)
	return achievements, args.Error(1)
}

func (m *RepositoryMock) ListUserAchievements(ctx context.Context, userUID string) ([]*models.UserAchievement, error) {
	args := m.Called(ctx, userUID)
	earned, _ := args.Get(0).([]*models.UserAchievement)
	return earned, args.Error(1)
}

func (m *RepositoryMock) GrantAchievement(ctx context.Context, userUID, code string) (bool, error) {
	args := m.Called(ctx, userUID, code)
	return args.Bool(0), args.Error(1)
}

type DeciderMock struct {
	mock.Mock
}

func (m *DeciderMock) Decide(ctx context.Context, userUID, courseID string) models.AccessDecision {
	args := m.Called(ctx, userUID, courseID)
	return args.Get(0).(models.AccessDecision)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	testUserUID  = "a4b8c9d0-0000-0000-0000-000000000001"
	testCourseID = "a4b8c9d0-0000-0000-0000-000000000002"
)

func allowDecision() models.AccessDecision {
	return models.AccessDecision{CanAccess: true, Reason: models.AccessReasonPremium}
}

func newService(repo *RepositoryMock, decider *DeciderMock, now time.Time) *Service {
	s := New(repo, decider, 1, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func readingReq(pages int) models.DummyReadingEvent {
	return models.DummyReadingEvent{CourseID: testCourseID, PagesRead: pages}
}

func TestRecordReading_AccessDenied(t *testing.T) {
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).
		Return(models.AccessDecision{CanAccess: false, Reason: models.AccessReasonNone})

	svc := newService(new(RepositoryMock), decider, time.Now())
	_, err := svc.RecordReading(context.Background(), testUserUID, readingReq(5))

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRecordReading_FirstEventStartsStreak(t *testing.T) {
	now := time.Date(2026, time.May, 10, 15, 0, 0, 0, time.UTC)

	repo := new(RepositoryMock)
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).Return(allowDecision())
	repo.On("CreateReadingEvent", mock.Anything, mock.Anything).Return(1, nil)
	repo.On("GetUserStats", mock.Anything, testUserUID).
		Return(&models.UserStats{UserUID: testUserUID}, nil)
	repo.On("UpsertUserStats", mock.Anything, mock.MatchedBy(func(stats models.UserStats) bool {
		return stats.Points == 12 && stats.CurrentStreak == 1 && stats.LongestStreak == 1
	})).Return(nil)
	repo.On("ListAchievements", mock.Anything).Return([]*models.Achievement{
		{Code: "first_steps", Kind: models.AchievementKindPoints, Threshold: 10},
		{Code: "bookworm", Kind: models.AchievementKindPoints, Threshold: 500},
	}, nil)
	repo.On("GrantAchievement", mock.Anything, testUserUID, "first_steps").Return(true, nil)

	svc := newService(repo, decider, now)
	stats, err := svc.RecordReading(context.Background(), testUserUID, readingReq(12))

	require.NoError(t, err)
	assert.Equal(t, 12, stats.Points)
	assert.Equal(t, 1, stats.CurrentStreak)
	repo.AssertExpectations(t)
	// Порог bookworm не достигнут
	repo.AssertNotCalled(t, "GrantAchievement", mock.Anything, testUserUID, "bookworm")
}

func TestRecordReading_NextDayExtendsStreak(t *testing.T) {
	now := time.Date(2026, time.May, 11, 9, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	repo := new(RepositoryMock)
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).Return(allowDecision())
	repo.On("CreateReadingEvent", mock.Anything, mock.Anything).Return(2, nil)
	repo.On("GetUserStats", mock.Anything, testUserUID).Return(&models.UserStats{
		UserUID:       testUserUID,
		Points:        50,
		CurrentStreak: 3,
		LongestStreak: 5,
		LastReadDate:  &yesterday,
	}, nil)
	repo.On("UpsertUserStats", mock.Anything, mock.MatchedBy(func(stats models.UserStats) bool {
		return stats.CurrentStreak == 4 && stats.LongestStreak == 5
	})).Return(nil)
	repo.On("ListAchievements", mock.Anything).Return(nil, nil)

	svc := newService(repo, decider, now)
	stats, err := svc.RecordReading(context.Background(), testUserUID, readingReq(3))

	require.NoError(t, err)
	assert.Equal(t, 4, stats.CurrentStreak)
}

func TestRecordReading_SameDayKeepsStreak(t *testing.T) {
	now := time.Date(2026, time.May, 10, 20, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	repo := new(RepositoryMock)
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).Return(allowDecision())
	repo.On("CreateReadingEvent", mock.Anything, mock.Anything).Return(3, nil)
	repo.On("GetUserStats", mock.Anything, testUserUID).Return(&models.UserStats{
		UserUID:       testUserUID,
		Points:        10,
		CurrentStreak: 2,
		LongestStreak: 2,
		LastReadDate:  &today,
	}, nil)
	repo.On("UpsertUserStats", mock.Anything, mock.MatchedBy(func(stats models.UserStats) bool {
		return stats.CurrentStreak == 2
	})).Return(nil)
	repo.On("ListAchievements", mock.Anything).Return(nil, nil)

	svc := newService(repo, decider, now)
	stats, err := svc.RecordReading(context.Background(), testUserUID, readingReq(1))

	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestRecordReading_GapResetsStreak(t *testing.T) {
	now := time.Date(2026, time.May, 15, 9, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, time.May, 8, 0, 0, 0, 0, time.UTC)

	repo := new(RepositoryMock)
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).Return(allowDecision())
	repo.On("CreateReadingEvent", mock.Anything, mock.Anything).Return(4, nil)
	repo.On("GetUserStats", mock.Anything, testUserUID).Return(&models.UserStats{
		UserUID:       testUserUID,
		Points:        100,
		CurrentStreak: 6,
		LongestStreak: 6,
		LastReadDate:  &lastWeek,
	}, nil)
	repo.On("UpsertUserStats", mock.Anything, mock.MatchedBy(func(stats models.UserStats) bool {
		return stats.CurrentStreak == 1 && stats.LongestStreak == 6
	})).Return(nil)
	repo.On("ListAchievements", mock.Anything).Return(nil, nil)

	svc := newService(repo, decider, now)
	stats, err := svc.RecordReading(context.Background(), testUserUID, readingReq(2))

	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 6, stats.LongestStreak)
}

func TestRecordReading_StreakAchievementGranted(t *testing.T) {
	now := time.Date(2026, time.May, 11, 9, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	repo := new(RepositoryMock)
	decider := new(DeciderMock)
	decider.On("Decide", mock.Anything, testUserUID, testCourseID).Return(allowDecision())
	repo.On("CreateReadingEvent", mock.Anything, mock.Anything).Return(5, nil)
	repo.On("GetUserStats", mock.Anything, testUserUID).Return(&models.UserStats{
		UserUID:       testUserUID,
		CurrentStreak: 6,
		LongestStreak: 6,
		LastReadDate:  &yesterday,
	}, nil)
	repo.On("UpsertUserStats", mock.Anything, mock.Anything).Return(nil)
	repo.On("ListAchievements", mock.Anything).Return([]*models.Achievement{
		{Code: "week_streak", Kind: models.AchievementKindStreak, Threshold: 7},
	}, nil)
	repo.On("GrantAchievement", mock.Anything, testUserUID, "week_streak").Return(true, nil)

	svc := newService(repo, decider, now)
	stats, err := svc.RecordReading(context.Background(), testUserUID, readingReq(1))

	require.NoError(t, err)
	assert.Equal(t, 7, stats.CurrentStreak)
	repo.AssertExpectations(t)
}

func TestProgress(t *testing.T) {
	repo := new(RepositoryMock)
	repo.On("GetUserStats", mock.Anything, testUserUID).
		Return(&models.UserStats{UserUID: testUserUID, Points: 42}, nil)
	repo.On("ListUserAchievements", mock.Anything, testUserUID).Return([]*models.UserAchievement{
		{UserUID: testUserUID, Code: "first_steps"},
	}, nil)

	svc := newService(repo, new(DeciderMock), time.Now())
	progress, err := svc.Progress(context.Background(), testUserUID)

	require.NoError(t, err)
	assert.Equal(t, 42, progress.Stats.Points)
	require.Len(t, progress.Achievements, 1)
	assert.Equal(t, "first_steps", progress.Achievements[0].Code)
}
