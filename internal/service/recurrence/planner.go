package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

var ErrInvalidSessionCount = errors.New("recurrence: total sessions must be at least 1")

const week = 7

// Planner раскладывает план лечения по календарным датам
//
// Сессии набиваются в текущую неделю подряд идущими днями начиная с якорной даты,
// не больше sessionsPerWeek за неделю. Затем план переходит на тот же день недели
// следующей недели и повторяет.
type Planner struct {
	sessionsPerWeek int
}

// NewPlanner создает планировщик. sessionsPerWeek < 1 заменяется на domain.MaxSessionsPerWeek,
// значения больше 7 ограничиваются длиной недели
func NewPlanner(sessionsPerWeek int) *Planner {
	if sessionsPerWeek < 1 {
		sessionsPerWeek = domain.MaxSessionsPerWeek
	}
	if sessionsPerWeek > week {
		sessionsPerWeek = week
	}
	return &Planner{sessionsPerWeek: sessionsPerWeek}
}

// Expand возвращает ровно total строго возрастающих дат
func (p *Planner) Expand(start time.Time, total int) ([]time.Time, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSessionCount, total)
	}

	anchor := domain.DateOnly(start)
	dates := make([]time.Time, 0, total)
	remaining := total

	for remaining > 0 {
		batch := min(p.sessionsPerWeek, remaining)
		for i := 0; i < batch; i++ {
			dates = append(dates, anchor.AddDate(0, 0, i))
		}
		remaining -= batch

		// Следующая неделя всегда начинается с того же дня недели, что и якорь
		anchor = anchor.AddDate(0, 0, week)
	}

	return dates, nil
}

// ExpandWeekly раскладывает план с ограничением domain.MaxSessionsPerWeek сессий в неделю
func ExpandWeekly(start time.Time, total int) ([]time.Time, error) {
	return NewPlanner(domain.MaxSessionsPerWeek).Expand(start, total)
}
