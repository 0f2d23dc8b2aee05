// /home/krylon/go/src/github.com/blicero/ariadne/objects/region.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-12 18:27:44 krylon>

package objects

import (
	"fmt"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects/transition"
)

//go:generate ffjson region.go

// Region is a monitored circular geographic area together with the
// policy of what should happen when the user crosses its boundary:
// an optional local Notification, an optional webhook target, a time
// window during which the fence is live at all.
//
// TransitionType is the crossing the fence watches for; Unset means
// both Enter and Exit. When a transition event is processed, the
// field is overwritten with the edge that actually fired, so
// downstream consumers know which one it was.
//
// IsLast marks the one Region, among several that triggered
// simultaneously, whose Notification is authorized to display. It is
// not stored per record but computed from the store's winner slot, so
// at most one Region ever carries it.
type Region struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Radius         float64         `json:"radius"`
	TransitionType transition.Type `json:"transitionType"`
	LoiteringDelay int             `json:"loiteringDelay,omitempty"`
	StartTime      string          `json:"startTime,omitempty"`
	EndTime        string          `json:"endTime,omitempty"`
	IsLast         bool            `json:"isLast"`
	URL            string          `json:"url,omitempty"`
	Authorization  string          `json:"authorization,omitempty"`
	Notification   *Notification   `json:"notification,omitempty"`
}

// Start returns the Region's StartTime as a time.Time.
// An empty or unparsable StartTime means the fence is unbounded on
// that side, expressed as the zero value.
func (r *Region) Start() time.Time {
	return parseStamp(r.StartTime)
} // func (r *Region) Start() time.Time

// End returns the Region's EndTime, zero if unbounded.
func (r *Region) End() time.Time {
	return parseStamp(r.EndTime)
} // func (r *Region) End() time.Time

// IsWithinTimeRange returns true if now falls into the Region's
// eligibility window, i.e. now >= StartTime (or no StartTime) and
// now < EndTime (or no EndTime). Comparison happens in UTC at
// millisecond granularity.
func (r *Region) IsWithinTimeRange(now time.Time) bool {
	var (
		start = r.Start()
		end   = r.End()
		ms    = now.In(time.UTC).UnixMilli()
	)

	if !start.IsZero() && ms < start.UnixMilli() {
		return false
	}

	if !end.IsZero() && ms >= end.UnixMilli() {
		return false
	}

	return true
} // func (r *Region) IsWithinTimeRange(now time.Time) bool

func (r *Region) String() string {
	return fmt.Sprintf("Region{ ID: %q, Name: %q, Lat: %f, Lon: %f, Radius: %.1f, Transition: %s }",
		r.ID,
		r.Name,
		r.Latitude,
		r.Longitude,
		r.Radius,
		r.TransitionType)
} // func (r *Region) String() string

func parseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	var (
		err error
		t   time.Time
	)

	if t, err = time.Parse(common.TimestampFormatWire, s); err != nil {
		// An unparsable bound is treated like an absent one.
		return time.Time{}
	}

	return t.In(time.UTC)
} // func parseStamp(s string) time.Time
