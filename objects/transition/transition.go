// /home/krylon/go/src/github.com/blicero/ariadne/objects/transition/transition.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-18 14:03:27 krylon>

// Package transition contains symbolic constants to describe
// the kind of boundary crossing the location provider reported
// for a geofence.
package transition

// Type describes a boundary crossing. The numeric values mirror the
// ones the location provider uses, hence the gap: Dwell is 4, not 3.
// Unset on a Region means the fence reacts to both Enter and Exit.
type Type int

// Known transition types.
const (
	Unset Type = 0
	Enter Type = 1
	Exit  Type = 2
	Dwell Type = 4
)

func (t Type) String() string {
	switch t {
	case Unset:
		return "Unset"
	case Enter:
		return "Enter"
	case Exit:
		return "Exit"
	case Dwell:
		return "Dwell"
	default:
		return "Unknown Transition"
	}
} // func (t Type) String() string

// Label returns the lower-case label the notification presentation
// layer uses ("enter", "exit", "dwell").
func (t Type) Label() string {
	switch t {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	case Dwell:
		return "dwell"
	default:
		return ""
	}
} // func (t Type) Label() string

// Wire returns the upper-case name used in webhook payloads
// ("ENTER", "EXIT", "DWELL").
func (t Type) Wire() string {
	switch t {
	case Enter:
		return "ENTER"
	case Exit:
		return "EXIT"
	case Dwell:
		return "DWELL"
	default:
		return ""
	}
} // func (t Type) Wire() string

// IsEdge returns true for the two edge transitions, Enter and Exit.
func (t Type) IsEdge() bool {
	return t == Enter || t == Exit
} // func (t Type) IsEdge() bool

// Valid returns true if t is a transition the location provider
// can actually report.
func (t Type) Valid() bool {
	return t == Enter || t == Exit || t == Dwell
} // func (t Type) Valid() bool
