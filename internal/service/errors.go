package service

import (
	"errors"
	"fmt"
)

// Authentication errors carry the message shown on the login screen
var (
	ErrInvalidCredentials = errors.New("Неверный логин или пароль")
	ErrAccountInactive    = errors.New("Ваш аккаунт ожидает активации администратором")
	ErrLoginTaken         = errors.New("Пользователь с таким ФИО уже зарегистрирован")
)

// Common domain errors
var (
	ErrForbidden    = errors.New("access denied: insufficient permissions")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
