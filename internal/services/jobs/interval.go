package jobs

import "time"

// every расписание с фиксированным интервалом
type every time.Duration

func (e every) NextRun(now time.Time) time.Time {
	return now.Add(time.Duration(e))
}
