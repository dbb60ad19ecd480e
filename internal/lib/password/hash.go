// Package password хеширует и проверяет пароли пользователей через bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash возвращает bcrypt-хеш пароля для хранения в базе данных.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hash), nil
}

// CompareHash проверяет соответствие пароля ранее сохранённому хешу.
// Возвращает nil при совпадении.
func CompareHash(storedHash, rawPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(rawPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
