package ics

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"calgrid/internal/model"
)

// ErrUnsupportedRRule is returned for rules other than DAILY or WEEKLY.
var ErrUnsupportedRRule = errors.New("unsupported recurrence rule")

var allDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// RecurrenceToRRule renders rec as an RRULE value (without the "RRULE:"
// prefix). Days outside Sunday..Saturday are skipped.
func RecurrenceToRRule(rec model.Recurrence) string {
	opt := rrule.ROption{Freq: rrule.WEEKLY, Until: rec.Until}
	for _, d := range rec.Days {
		wd, ok := toRRuleDay(d)
		if !ok {
			continue
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}
	return opt.RRuleString()
}

// RecurrenceFromRRule maps a DAILY or WEEKLY rule to a Recurrence. DAILY
// becomes every weekday of the week. Intervals and counts are dropped.
func RecurrenceFromRRule(s string) (*model.Recurrence, error) {
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}
	rec := &model.Recurrence{Until: opt.Until}
	switch opt.Freq {
	case rrule.DAILY:
		rec.Days = append([]time.Weekday(nil), allDays...)
	case rrule.WEEKLY:
		for _, wd := range opt.Byweekday {
			rec.Days = append(rec.Days, fromRRuleDay(wd))
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRRule, opt.Freq)
	}
	return rec, nil
}

// rrule numbers weekdays from Monday=0; time.Weekday from Sunday=0.
var rruleDays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func toRRuleDay(d time.Weekday) (rrule.Weekday, bool) {
	if d < time.Sunday || d > time.Saturday {
		return rrule.Weekday{}, false
	}
	return rruleDays[d], true
}

func fromRRuleDay(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}
