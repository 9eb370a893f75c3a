package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // TZID lookups must work in minimal containers

	ics "github.com/arran4/golang-ical"

	"sauna_automation/internal/models"
)

const (
	layoutDate    = "20060102"
	layoutLocal   = "20060102T150405"
	layoutUTC     = "20060102T150405Z"
	paramTZID     = "TZID"
	paramValue    = "VALUE"
	valueTypeDate = "DATE"
)

// ErrNotCalendar means the payload is empty or carries no VCALENDAR object.
var ErrNotCalendar = errors.New("feed is not an iCalendar document")

var calendarBegin = []byte("BEGIN:VCALENDAR")

var textUnescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, " ", `\N`, " ", `\\`, `\`)

// Parse reads an iCalendar payload and returns its events as reservations in
// ascending start order. Events without a resolvable start or end, or with an
// end not after the start, are dropped. An empty payload is ErrNotCalendar,
// not an empty calendar.
func Parse(raw []byte) ([]models.Reservation, error) {
	if !bytes.Contains(bytes.ToUpper(raw), calendarBegin) {
		return nil, fmt.Errorf("parse calendar: %w", ErrNotCalendar)
	}
	cal, err := ics.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var out []models.Reservation
	for _, component := range cal.Components {
		event, ok := component.(*ics.VEvent)
		if !ok {
			continue
		}
		start, ok := propertyTime(event.GetProperty(ics.ComponentPropertyDtStart))
		if !ok {
			continue
		}
		end, ok := propertyTime(event.GetProperty(ics.ComponentPropertyDtEnd))
		if !ok || !end.After(start) {
			continue
		}
		out = append(out, models.Reservation{
			Start: start,
			End:   end,
			Title: propertyText(event.GetProperty(ics.ComponentPropertySummary)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// propertyTime resolves a DTSTART/DTEND property to a UTC instant.
// Date-only values are midnight UTC, floating values are taken as UTC and
// TZID values are converted. An unknown TZID is unresolvable.
func propertyTime(p *ics.IANAProperty) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	value := strings.TrimSpace(p.Value)
	if value == "" {
		return time.Time{}, false
	}

	if isDateValue(p, value) {
		t, err := time.ParseInLocation(layoutDate, value, time.UTC)
		return t, err == nil
	}
	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse(layoutUTC, value)
		return t.UTC(), err == nil
	}

	loc := time.UTC
	if tz := firstParam(p, paramTZID); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, false
		}
		loc = l
	}
	t, err := time.ParseInLocation(layoutLocal, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func isDateValue(p *ics.IANAProperty, value string) bool {
	if strings.EqualFold(firstParam(p, paramValue), valueTypeDate) {
		return true
	}
	return len(value) == len(layoutDate) && !strings.Contains(value, "T")
}

func firstParam(p *ics.IANAProperty, name string) string {
	vals := p.ICalParameters[name]
	if len(vals) == 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(vals[0]), `"`)
}

func propertyText(p *ics.IANAProperty) string {
	if p == nil {
		return ""
	}
	return textUnescaper.Replace(strings.TrimSpace(p.Value))
}
