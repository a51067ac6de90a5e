package utils

import (
	"time"
)

// KSTLocation is the single reference timezone for calendar-day and week
// boundaries. A fixed offset avoids a tzdata dependency at runtime.
var KSTLocation = time.FixedZone("KST", 9*60*60)

func TimeNowKST() time.Time {
	return time.Now().In(KSTLocation)
}

// DateOnly truncates t to midnight of its calendar day in KST.
func DateOnly(t time.Time) time.Time {
	kst := t.In(KSTLocation)
	return time.Date(kst.Year(), kst.Month(), kst.Day(), 0, 0, 0, 0, KSTLocation)
}

// TodayKST returns midnight of the current KST calendar day.
func TodayKST() time.Time {
	return DateOnly(time.Now())
}

// SameDay reports whether a and b fall on the same KST calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// WeekWindow returns the Monday 00:00 (inclusive) and next Monday 00:00
// (exclusive) bounds of the KST week containing t.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	day := DateOnly(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the week that started six days earlier
	}
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func FormatDate(t time.Time) string {
	return t.In(KSTLocation).Format("2006-01-02")
}
