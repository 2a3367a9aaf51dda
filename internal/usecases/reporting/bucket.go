package reporting

import (
	"time"

	"github.com/vfg2006/sales-manager-api/internal/domain"
)

// BucketKey deriva o rótulo de agrupamento temporal de um registro.
// Dois timestamps caem no mesmo bucket sse pertencem ao mesmo período do
// calendário UTC — o fuso é fixado em UTC para que o mesmo conjunto de
// registros agregue igual em qualquer servidor.
func BucketKey(t time.Time, bucket string) string {
	t = t.UTC()

	switch bucket {
	case domain.BucketWeek:
		start := startOfWeek(t)
		end := start.AddDate(0, 0, 6)
		return start.Format(time.DateOnly) + " to " + end.Format(time.DateOnly)
	case domain.BucketMonth:
		return t.Format("January 2006")
	case domain.BucketYear:
		return t.Format("2006")
	default:
		return t.Format(time.DateOnly)
	}
}

// startOfWeek retorna a segunda-feira da semana de t
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}
