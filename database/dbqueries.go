// /home/krylon/go/src/github.com/blicero/ariadne/database/dbqueries.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-10 19:02:33 krylon>

package database

import "github.com/blicero/ariadne/database/query"

var dbQueries = map[query.ID]string{
	query.RegionPut: `
INSERT INTO region (id, name, latitude, longitude, radius, transition, loitering_delay, start_time, end_time, url, authorization)
VALUES             ( ?,    ?,        ?,         ?,      ?,          ?,               ?,          ?,        ?,   ?,             ?)
ON CONFLICT (id) DO UPDATE SET
    name            = excluded.name,
    latitude        = excluded.latitude,
    longitude       = excluded.longitude,
    radius          = excluded.radius,
    transition      = excluded.transition,
    loitering_delay = excluded.loitering_delay,
    start_time      = excluded.start_time,
    end_time        = excluded.end_time,
    url             = excluded.url,
    authorization   = excluded.authorization
`,
	query.RegionGet: `
SELECT
    r.name,
    r.latitude,
    r.longitude,
    r.radius,
    r.transition,
    r.loitering_delay,
    r.start_time,
    r.end_time,
    r.url,
    r.authorization,
    n.id,
    n.title,
    n.text,
    n.small_icon,
    n.icon,
    n.open_app,
    n.vibration,
    n.data,
    n.last_triggered
FROM region r
LEFT JOIN notification n ON n.region_id = r.id
WHERE r.id = ?
`,
	query.RegionGetAll: `
SELECT
    r.id,
    r.name,
    r.latitude,
    r.longitude,
    r.radius,
    r.transition,
    r.loitering_delay,
    r.start_time,
    r.end_time,
    r.url,
    r.authorization,
    n.id,
    n.title,
    n.text,
    n.small_icon,
    n.icon,
    n.open_app,
    n.vibration,
    n.data,
    n.last_triggered
FROM region r
LEFT JOIN notification n ON n.region_id = r.id
ORDER BY r.id
`,
	query.RegionDelete:    "DELETE FROM region WHERE id = ?",
	query.RegionDeleteAll: "DELETE FROM region",
	query.NotificationPut: `
INSERT INTO notification (region_id, id, title, text, small_icon, icon, open_app, vibration, data, last_triggered)
VALUES                   (        ?,  ?,     ?,    ?,          ?,    ?,        ?,         ?,    ?,              ?)
ON CONFLICT (region_id) DO UPDATE SET
    id             = excluded.id,
    title          = excluded.title,
    text           = excluded.text,
    small_icon     = excluded.small_icon,
    icon           = excluded.icon,
    open_app       = excluded.open_app,
    vibration      = excluded.vibration,
    data           = excluded.data,
    last_triggered = excluded.last_triggered
`,
	query.NotificationDelete: "DELETE FROM notification WHERE region_id = ?",
	query.NotificationSetLastTriggered: `
UPDATE notification
SET last_triggered = ?
WHERE region_id = ?
`,
	query.ConfigGet: "SELECT delay FROM config WHERE lock = 0",
	query.ConfigSet: "UPDATE config SET delay = ? WHERE lock = 0",
	query.WinnerGet: "SELECT region FROM winner WHERE lock = 0",
	query.WinnerSet: "UPDATE winner SET region = ? WHERE lock = 0",
	query.WinnerClear: "UPDATE winner SET region = '' WHERE lock = 0",
}
