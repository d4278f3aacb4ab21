// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"io"
	"time"

	"github.com/olegiv/agenda-go/internal/model"
)

// CalendarEvent is the display projection of a session for the calendar
// view: title, start instant, and the category-keyed color.
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	Category        string    `json:"category"`
	City            string    `json:"city"`
	Status          string    `json:"status"`
}

// ProjectCalendar maps sessions to calendar display events, preserving order.
func ProjectCalendar(sessions []model.Session) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(sessions))
	for _, s := range sessions {
		color := model.CategoryColor(s.Category)
		events = append(events, CalendarEvent{
			ID:              s.ID,
			Title:           s.Title,
			Start:           s.StartsAt,
			BackgroundColor: color,
			BorderColor:     color,
			Category:        s.Category,
			City:            s.City,
			Status:          s.Status,
		})
	}
	return events
}

// ICSProductID identifies this application in exported calendars.
const ICSProductID = "-//agenda//calendar//ES"

// icsTimestamp renders a time in the iCalendar UTC format.
func icsTimestamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// icsEscape escapes text values per RFC 5545 §3.3.11.
func icsEscape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', ';', ',':
			out = append(out, '\\', r)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			// dropped
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// WriteICS writes the sessions as an iCalendar document. Each session
// becomes a one-hour VEVENT starting at its scheduled instant.
func WriteICS(w io.Writer, sessions []model.Session) error {
	now := time.Now()

	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format+"\r\n", args...)
		}
	}

	write("BEGIN:VCALENDAR")
	write("VERSION:2.0")
	write("PRODID:%s", ICSProductID)
	write("CALSCALE:GREGORIAN")

	for _, s := range sessions {
		write("BEGIN:VEVENT")
		write("UID:%s@agenda", s.ID)
		write("DTSTAMP:%s", icsTimestamp(now))
		write("DTSTART:%s", icsTimestamp(s.StartsAt))
		write("DTEND:%s", icsTimestamp(s.StartsAt.Add(time.Hour)))
		write("SUMMARY:%s", icsEscape(s.Title))
		write("DESCRIPTION:%s", icsEscape(s.Description))
		write("LOCATION:%s", icsEscape(s.City))
		write("CATEGORIES:%s", icsEscape(s.Category))
		write("END:VEVENT")
	}

	write("END:VCALENDAR")
	return err
}
