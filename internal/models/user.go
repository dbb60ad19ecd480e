// Package models содержит доменные структуры платформы курсов:
// пользователи, курсы, подписки, платежи и прогресс чтения,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// StatusActive — статус активной учётной записи.
const StatusActive = "active"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID             string     // Уникальный идентификатор пользователя
	Email           string     // Электронная почта
	Username        string     // Имя пользователя (уникальное)
	PasswordHash    string     // Хэш пароля пользователя
	Role            string     // Роль: admin, student или teacher
	Status          string     // Статус учётной записи, active или другой
	AccessExpiresAt *time.Time // Дата окончания пробного окна доступа (nil — окна нет)
	CreatedAt       time.Time  // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
