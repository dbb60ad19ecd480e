// Package response определяет единый формат JSON-ответов API:
// статус OK/Error, текст ошибки и полезные данные.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response — стандартная оболочка JSON-ответа сервера.
type Response struct {
	Status string `json:"status"`          // "OK" или "Error"
	Error  string `json:"error,omitempty"` // Текст ошибки при неуспехе
	Data   any    `json:"data,omitempty"`  // Данные ответа при успехе
}

// ErrorResponse — форма ошибки для Swagger-аннотаций @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Значения поля Status.
const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError переводит ошибки валидатора в человеко-читаемый
// Response, перечисляя нарушения через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "alphanum":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid uuid", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}
