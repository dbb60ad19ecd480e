package access

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) ReadCourse(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	course, _ := args.Get(0).(*models.Course)
	return course, args.Error(1)
}

func (m *RepositoryMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *RepositoryMock) GetCourseAccessKind(ctx context.Context, userUID, courseID string) (string, error) {
	args := m.Called(ctx, userUID, courseID)
	return args.String(0), args.Error(1)
}

func (m *RepositoryMock) FindCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	testUserUID  = "6f1e1a3c-0000-0000-0000-000000000001"
	testCourseID = "6f1e1a3c-0000-0000-0000-000000000002"
)

func newDecider(repo Repository, now time.Time) *Decider {
	d := NewDecider(repo, newNoopLogger())
	d.now = func() time.Time { return now }
	return d
}

func activeUser() *models.User {
	return &models.User{
		UID:      testUserUID,
		Username: "reader",
		Role:     models.RoleStudent,
		Status:   models.StatusActive,
	}
}

func paidCourse() *models.Course {
	price := 49.90
	return &models.Course{
		ID:     testCourseID,
		Title:  "Go для практиков",
		IsFree: false,
		Price:  &price,
	}
}

func TestDecide_CourseNotFound(t *testing.T) {
	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(nil, sql.ErrNoRows)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonNone, decision.Reason)
	assert.Equal(t, "course not found", decision.Message)
	repo.AssertExpectations(t)
}

func TestDecide_UserNotFound(t *testing.T) {
	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(nil, sql.ErrNoRows)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "user not found", decision.Message)
	repo.AssertExpectations(t)
}

func TestDecide_AdminAlwaysAllowed(t *testing.T) {
	admin := activeUser()
	admin.Role = models.RoleAdmin

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(admin, nil)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonAdmin, decision.Reason)
	// Админ не доходит до проверки списков доступа и подписки
	repo.AssertNotCalled(t, "GetCourseAccessKind", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindCurrentSubscription", mock.Anything, mock.Anything)
}

func TestDecide_InactiveUserDenied(t *testing.T) {
	user := activeUser()
	user.Status = "suspended"

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(user, nil)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "account is not active", decision.Message)
}

func TestDecide_BlockedBeatsEverything(t *testing.T) {
	now := time.Now()
	// Пользователь с действующим пробным окном и бесплатным курсом,
	// но блокировка всё равно выигрывает.
	user := activeUser()
	trialEnd := now.AddDate(0, 0, 3)
	user.AccessExpiresAt = &trialEnd

	freeCourse := paidCourse()
	freeCourse.IsFree = true

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(freeCourse, nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(user, nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).
		Return(models.CourseAccessBlocked, nil)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "course is blocked for this user", decision.Message)
}

func TestDecide_FreeCourseAllowed(t *testing.T) {
	freeCourse := paidCourse()
	freeCourse.IsFree = true

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(freeCourse, nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonFree, decision.Reason)
	repo.AssertNotCalled(t, "FindCurrentSubscription", mock.Anything, mock.Anything)
}

func TestDecide_TrialWindowAllowsPaidCourse(t *testing.T) {
	now := time.Now()
	user := activeUser()
	trialEnd := now.AddDate(0, 0, 2)
	user.AccessExpiresAt = &trialEnd

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(user, nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonTrial, decision.Reason)
}

func TestDecide_ExpiredTrialWindowDoesNotAllow(t *testing.T) {
	now := time.Now()
	user := activeUser()
	trialEnd := now.AddDate(0, 0, -1)
	user.AccessExpiresAt = &trialEnd

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(user, nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)
	repo.On("FindCurrentSubscription", mock.Anything, testUserUID).Return(nil, sql.ErrNoRows)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "requires premium subscription", decision.Message)
}

func TestDecide_AllowListGrantsPurchasedCourse(t *testing.T) {
	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).
		Return(models.CourseAccessAllowed, nil)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonPremium, decision.Reason)
	repo.AssertNotCalled(t, "FindCurrentSubscription", mock.Anything, mock.Anything)
}

func TestDecide_ActiveSubscriptionAllows(t *testing.T) {
	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	sub := &models.Subscription{
		ID:               1,
		UserUID:          testUserUID,
		Status:           models.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)
	repo.On("FindCurrentSubscription", mock.Anything, testUserUID).Return(sub, nil)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonPremium, decision.Reason)
	assert.Equal(t, sub, decision.Subscription)
}

func TestDecide_TrialSubscriptionAllows(t *testing.T) {
	now := time.Now()
	trialEnd := now.AddDate(0, 0, 5)
	sub := &models.Subscription{
		ID:          2,
		UserUID:     testUserUID,
		Status:      models.SubscriptionStatusTrial,
		TrialEndsAt: &trialEnd,
	}

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)
	repo.On("FindCurrentSubscription", mock.Anything, testUserUID).Return(sub, nil)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.True(t, decision.CanAccess)
	assert.Equal(t, models.AccessReasonTrial, decision.Reason)
}

func TestDecide_ExpiredSubscriptionPeriodDenied(t *testing.T) {
	now := time.Now()
	periodEnd := now.AddDate(0, 0, -1)
	sub := &models.Subscription{
		ID:               3,
		UserUID:          testUserUID,
		Status:           models.SubscriptionStatusActive,
		CurrentPeriodEnd: &periodEnd,
	}

	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).Return("", nil)
	repo.On("FindCurrentSubscription", mock.Anything, testUserUID).Return(sub, nil)

	decision := newDecider(repo, now).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "requires premium subscription", decision.Message)
}

func TestDecide_AccessKindErrorTreatedAsMissing(t *testing.T) {
	repo := new(RepositoryMock)
	repo.On("ReadCourse", mock.Anything, testCourseID).Return(paidCourse(), nil)
	repo.On("GetUserByUID", mock.Anything, testUserUID).Return(activeUser(), nil)
	repo.On("GetCourseAccessKind", mock.Anything, testUserUID, testCourseID).
		Return("", errors.New("connection reset"))
	repo.On("FindCurrentSubscription", mock.Anything, testUserUID).Return(nil, sql.ErrNoRows)

	decision := newDecider(repo, time.Now()).Decide(context.Background(), testUserUID, testCourseID)

	assert.False(t, decision.CanAccess)
	assert.Equal(t, "requires premium subscription", decision.Message)
}
