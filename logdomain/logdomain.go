// /home/krylon/go/src/github.com/blicero/ariadne/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 04. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-04 19:12:48 krylon>

// Package logdomain provides symbolic constants to identify the
// various pieces of the application that need to do logging.
package logdomain

// ID represents an area of concern.
type ID uint8

// These constants identify log sources.
const (
	Common ID = iota
	Backend
	Database
	DBPool
	JobQueue
	Notify
	Bridge
	Client
)

func (id ID) String() string {
	switch id {
	case Common:
		return "Common"
	case Backend:
		return "Backend"
	case Database:
		return "Database"
	case DBPool:
		return "DBPool"
	case JobQueue:
		return "JobQueue"
	case Notify:
		return "Notify"
	case Bridge:
		return "Bridge"
	case Client:
		return "Client"
	default:
		return "Unknown Source"
	}
} // func (id ID) String() string

// AllDomains returns a slice of all the known log sources.
func AllDomains() []ID {
	return []ID{
		Common,
		Backend,
		Database,
		DBPool,
		JobQueue,
		Notify,
		Bridge,
		Client,
	}
} // func AllDomains() []ID
