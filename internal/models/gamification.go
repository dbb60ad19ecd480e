package models

import "time"

// ReadingEvent — событие чтения: пользователь прочитал страницы курса.
type ReadingEvent struct {
	ID         int       // Уникальный идентификатор события
	UserUID    string    // Идентификатор пользователя
	CourseID   string    // Идентификатор курса
	PagesRead  int       // Количество прочитанных страниц
	OccurredAt time.Time // Момент события
}

// UserStats — накопленная статистика чтения пользователя.
type UserStats struct {
	UserUID       string     // Идентификатор пользователя
	Points        int        // Накопленные очки
	CurrentStreak int        // Текущая серия дней чтения подряд
	LongestStreak int        // Максимальная серия
	LastReadDate  *time.Time // Дата последнего чтения (без времени)
}

// Виды порогов достижений.
const (
	AchievementKindPoints = "points"
	AchievementKindStreak = "streak"
)

// Achievement — справочная запись достижения с порогом выдачи.
type Achievement struct {
	Code      string // Уникальный код достижения
	Title     string // Название
	Kind      string // points или streak
	Threshold int    // Порог выдачи
}

// UserAchievement — факт получения достижения пользователем.
type UserAchievement struct {
	UserUID  string    `json:"user_uid"`
	Code     string    `json:"code"`
	EarnedAt time.Time `json:"earned_at"`
}

// DummyReadingEvent используется для приёма события чтения из JSON-запроса.
type DummyReadingEvent struct {
	CourseID  string `json:"course_id" validate:"required,uuid"`
	PagesRead int    `json:"pages_read" validate:"required,gt=0"`
}

// Progress — агрегированный прогресс пользователя для выдачи в API.
type Progress struct {
	Stats        UserStats         `json:"stats"`
	Achievements []UserAchievement `json:"achievements"`
}
