package models

import "time"

// Course представляет курс каталога. Контент курса — PDF-файл,
// ключ объекта хранится в PDFObjectKey.
type Course struct {
	ID           string    // Уникальный идентификатор курса
	Title        string    // Название курса
	Description  string    // Описание курса
	Category     string    // Категория каталога
	IsFree       bool      // Бесплатный курс, доступен без подписки
	Price        *float64  // Цена разовой покупки (nil — только по подписке)
	PDFObjectKey string    // Ключ PDF-файла в объектном хранилище
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата последнего изменения
}

// DummyCourse используется для приёма данных курса из JSON-запроса
// при создании и обновлении.
type DummyCourse struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category" validate:"required"`
	IsFree       bool     `json:"is_free"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	PDFObjectKey string   `json:"pdf_object_key"`
}

// Виды записей в списках доступа пользователя к курсам.
const (
	CourseAccessAllowed = "allowed"
	CourseAccessBlocked = "blocked"
)
