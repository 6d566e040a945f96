package analytics

import "time"

// Períodos con nombre para las ventanas del dashboard.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodTotal = "total"
)

// ResolvePeriod traduce un período con nombre a una ventana [from, now].
// from == nil significa sin cota inferior (todo el histórico). Un valor no
// reconocido o vacío se trata como "total". La semana empieza el lunes.
// Devuelve además el nombre normalizado del período.
func ResolvePeriod(period string, now time.Time) (from *time.Time, to time.Time, name string) {
	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	switch period {
	case PeriodToday:
		start := midnight(now)
		return &start, now, PeriodToday
	case PeriodWeek:
		// Lunes más reciente a medianoche. Weekday de Go arranca en domingo.
		daysBack := (int(now.Weekday()) + 6) % 7
		start := midnight(now.AddDate(0, 0, -daysBack))
		return &start, now, PeriodWeek
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, now, PeriodMonth
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return &start, now, PeriodYear
	default:
		return nil, now, PeriodTotal
	}
}
