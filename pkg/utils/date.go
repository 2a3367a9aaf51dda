package utils

import (
	"errors"
	"time"
)

var ErrEmptyDate = errors.New("data não informada")

// ParseDate converte a data de um registro no formato AAAA-MM-DD.
// Entrada vazia é erro: todo registro tem data.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, ErrEmptyDate
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
