// /home/krylon/go/src/github.com/blicero/ariadne/database/query/query.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-10 18:37:21 krylon>

// Package query provides symbolic constants for identifying SQL queries.
package query

//go:generate stringer -type=ID

type ID uint8

const (
	RegionPut ID = iota
	RegionGet
	RegionGetAll
	RegionDelete
	RegionDeleteAll
	NotificationPut
	NotificationDelete
	NotificationSetLastTriggered
	ConfigGet
	ConfigSet
	WinnerGet
	WinnerSet
	WinnerClear
)
