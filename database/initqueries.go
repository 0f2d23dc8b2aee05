// /home/krylon/go/src/github.com/blicero/ariadne/database/initqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-10 18:44:08 krylon>

package database

var initQueries = []string{
	`
CREATE TABLE region (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL DEFAULT '',
    latitude        REAL NOT NULL,
    longitude       REAL NOT NULL,
    radius          REAL NOT NULL,
    transition      INTEGER NOT NULL DEFAULT 0,
    loitering_delay INTEGER NOT NULL DEFAULT 0,
    start_time      TEXT NOT NULL DEFAULT '',
    end_time        TEXT NOT NULL DEFAULT '',
    url             TEXT NOT NULL DEFAULT '',
    authorization   TEXT NOT NULL DEFAULT '',
    CHECK (radius > 0)
)
`,
	`
CREATE TABLE notification (
    region_id      TEXT UNIQUE NOT NULL,
    id             INTEGER NOT NULL,
    title          TEXT NOT NULL DEFAULT '',
    text           TEXT NOT NULL DEFAULT '',
    small_icon     TEXT NOT NULL DEFAULT '',
    icon           TEXT NOT NULL DEFAULT '',
    open_app       INTEGER NOT NULL DEFAULT 0,
    vibration      TEXT NOT NULL DEFAULT '',
    data           TEXT NOT NULL DEFAULT '',
    last_triggered INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (region_id) REFERENCES region (id)
        ON DELETE CASCADE
        ON UPDATE RESTRICT
)
`,
	"CREATE INDEX notification_region_idx ON notification (region_id)",
	// config and winner are single-row tables, the lock column makes
	// sure they stay that way.
	`
CREATE TABLE config (
    lock  INTEGER PRIMARY KEY CHECK (lock = 0),
    delay INTEGER NOT NULL DEFAULT 10
)
`,
	`
CREATE TABLE winner (
    lock   INTEGER PRIMARY KEY CHECK (lock = 0),
    region TEXT NOT NULL DEFAULT ''
)
`,
	"INSERT INTO config (lock, delay) VALUES (0, 10)",
	"INSERT INTO winner (lock, region) VALUES (0, '')",
}
