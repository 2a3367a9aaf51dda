package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Data válida", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *date)
	})

	t.Run("Data vazia é erro", func(t *testing.T) {
		_, err := ParseDate("")
		assert.ErrorIs(t, err, ErrEmptyDate)
	})

	t.Run("Formato brasileiro é rejeitado", func(t *testing.T) {
		_, err := ParseDate("15/01/2024")
		assert.Error(t, err)
	})

	t.Run("Dia inexistente é rejeitado", func(t *testing.T) {
		_, err := ParseDate("2024-02-30")
		assert.Error(t, err)
	})
}
