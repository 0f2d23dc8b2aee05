// /home/krylon/go/src/github.com/blicero/ariadne/objects/notification.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-09 19:41:20 krylon>

// Package objects provides the data types used by the application.
package objects

import (
	"encoding/json"
	"time"
)

//go:generate ffjson notification.go

// RetriggerInterval is the minimum amount of time that has to pass after
// a Notification was displayed before it may be displayed again.
// Zero means a Notification can always be triggered again.
var RetriggerInterval time.Duration

// Notification is the display policy for one Region: what to show the
// user when the fence fires, and when it was last shown.
// The visual parameters (icons, vibration pattern, click payload) are
// opaque to the backend, it stores and reproduces them verbatim for
// the presentation layer.
type Notification struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Text           string          `json:"text"`
	SmallIcon      string          `json:"smallIcon,omitempty"`
	Icon           string          `json:"icon,omitempty"`
	OpenAppOnClick bool            `json:"openAppOnClick,omitempty"`
	Vibration      []int           `json:"vibration,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	LastTriggered  time.Time       `json:"lastTriggered,omitempty"`
}

// CanBeTriggered is the frequency gate: it returns true if the
// Notification has never been displayed, or if its last display is at
// least RetriggerInterval in the past.
func (n *Notification) CanBeTriggered() bool {
	if n.LastTriggered.IsZero() {
		return true
	}

	return time.Since(n.LastTriggered) >= RetriggerInterval
} // func (n *Notification) CanBeTriggered() bool

// DataJSON returns the opaque click payload as a string, or "" if
// there is none.
func (n *Notification) DataJSON() string {
	if len(n.Data) == 0 {
		return ""
	}

	return string(n.Data)
} // func (n *Notification) DataJSON() string
