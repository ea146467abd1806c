package model

import "time"

// HolidaySet flags calendar dates as public holidays. Membership is tested by
// date only; the time of day and the label are ignored for classification.
type HolidaySet struct {
	labels map[string]string
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewHolidaySet builds a set from plain dates with empty labels.
func NewHolidaySet(dates ...time.Time) *HolidaySet {
	h := &HolidaySet{labels: make(map[string]string, len(dates))}
	for _, d := range dates {
		h.labels[dateKey(d)] = ""
	}
	return h
}

// Add inserts a labeled holiday.
func (h *HolidaySet) Add(date time.Time, label string) {
	h.labels[dateKey(date)] = label
}

// Contains reports whether the date of t is a holiday. A nil set contains
// nothing.
func (h *HolidaySet) Contains(t time.Time) bool {
	if h == nil {
		return false
	}
	_, ok := h.labels[dateKey(t)]
	return ok
}

// Label returns the holiday label for the date of t.
func (h *HolidaySet) Label(t time.Time) (string, bool) {
	if h == nil {
		return "", false
	}
	label, ok := h.labels[dateKey(t)]
	return label, ok
}

// Len returns the number of holidays in the set.
func (h *HolidaySet) Len() int {
	if h == nil {
		return 0
	}
	return len(h.labels)
}
