// Package models defines the domain types for bulletin.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// IDLayout is the time layout used to derive a notice id from its creation time.
const IDLayout = "20060102_150405"

// Notice is a short author-written message shown once per machine.
// ID is taken from the record's file stem and never serialized.
type Notice struct {
	ID      string    `json:"-"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// dateLayouts are the ISO-8601 forms accepted for a notice date, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("models: unrecognised date %q", s)
}

// UnmarshalJSON decodes a notice record, accepting any date form ParseDate
// understands. Records are still written as RFC 3339.
func (n *Notice) UnmarshalJSON(data []byte) error {
	type record Notice
	aux := struct {
		*record
		Date *string `json:"date"`
	}{record: (*record)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == nil || *aux.Date == "" {
		n.Date = time.Time{}
		return nil
	}
	t, err := ParseDate(*aux.Date)
	if err != nil {
		return err
	}
	n.Date = t
	return nil
}

// Validate checks that a notice carries content and an author.
func (n *Notice) Validate() error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Content, validation.Required),
		validation.Field(&n.Author, validation.Required),
		validation.Field(&n.Date, validation.Required),
	)
}

// SeenMap records which notice ids were displayed on this machine.
// A missing or false entry means unseen.
type SeenMap map[string]bool

// Seen reports whether id has been displayed.
func (m SeenMap) Seen(id string) bool {
	return m[id]
}

// ExecState is the terminal state of an embedded command.
type ExecState string

const (
	StateExecuted ExecState = "executed"
	StateSkipped  ExecState = "skipped"
)

// Execution is one resolved embedded command.
type Execution struct {
	NoticeID  string
	Command   string
	State     ExecState
	AutoRun   bool
	ExitCode  int
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Failed reports whether an executed command did not succeed.
func (e Execution) Failed() bool {
	return e.State == StateExecuted && (e.ExitCode != 0 || e.Error != "")
}
