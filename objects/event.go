// /home/krylon/go/src/github.com/blicero/ariadne/objects/event.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-12 19:02:15 krylon>

package objects

import (
	"time"

	"github.com/blicero/ariadne/objects/transition"
)

//go:generate ffjson event.go

// Coordinate is a point on the map.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TransitionEvent is what the location provider delivers when one or
// more monitored fences were crossed: the kind of crossing, the ids of
// the fences that triggered, optionally the location that did it.
// If the provider itself failed, Error carries its error code and no
// fence processing happens.
type TransitionEvent struct {
	TransitionType     transition.Type `json:"transitionType"`
	TriggeredRegionIDs []string        `json:"triggeredRegionIds"`
	TriggeringLocation *Coordinate     `json:"triggeringLocation,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// Kinds of events queued up for the web frontend.
const (
	BridgeTransition = "transition"
	BridgeError      = "error"
	BridgeClick      = "click"
)

// BridgeEvent is one entry in the outbound feed to the web frontend:
// a batch of Regions that fired (in trigger order), an error report,
// or a notification click-through.
type BridgeEvent struct {
	Kind      string    `json:"kind"`
	Regions   []Region  `json:"regions,omitempty"`
	Error     string    `json:"error,omitempty"`
	Data      string    `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
