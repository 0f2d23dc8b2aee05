// /home/krylon/go/src/github.com/blicero/ariadne/notify/notify.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-13 18:02:45 krylon>

// Package notify presents Notifications to the user.
// The backend only ever talks to the Notifier interface, the
// rendering itself is delegated to the desktop's notification
// service via DBus.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/godbus/dbus/v5"
)

const (
	notifyObj     = "org.freedesktop.Notifications"
	notifyPath    = "/org/freedesktop/Notifications"
	notifyMethod  = "org.freedesktop.Notifications.Notify"
	dismissMethod = "org.freedesktop.Notifications.CloseNotification"
)

// Notifier displays Notifications to the user.
// The transition argument is the lower-case label of the edge that
// fired ("enter" or "exit"); a $transition placeholder in the title
// is replaced with it.
type Notifier interface {
	Notify(n *objects.Notification, transition string) error
	Dismiss(ids []int64) error
}

// DBusNotifier presents Notifications via the desktop notification
// service on the DBus session bus.
type DBusNotifier struct {
	log *log.Logger
	bus *dbus.Conn
}

// NewDBusNotifier connects to the session bus and returns a Notifier
// using it.
func NewDBusNotifier() (*DBusNotifier, error) {
	var (
		err error
		nf  = new(DBusNotifier)
	)

	if nf.log, err = common.GetLogger(logdomain.Notify); err != nil {
		return nil, err
	} else if nf.bus, err = dbus.SessionBus(); err != nil {
		nf.log.Printf("[ERROR] Failed to connect to DBus session bus: %s\n",
			err.Error())
		return nil, err
	}

	return nf, nil
} // func NewDBusNotifier() (*DBusNotifier, error)

// Notify displays a single Notification.
func (nf *DBusNotifier) Notify(n *objects.Notification, transition string) error {
	var obj = nf.bus.Object(notifyObj, notifyPath)

	if obj == nil {
		var err = fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
		nf.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

	var title = strings.ReplaceAll(n.Title, "$transition", transition)

	var res = obj.Call(
		notifyMethod,
		0,
		common.AppName,
		uint32(n.ID),
		n.Icon,
		title,
		n.Text,
		[]string{},
		map[string]dbus.Variant{},
		0,
	)

	if res.Err != nil {
		nf.log.Printf("[ERROR] Cannot send Notification %q: %s\n",
			title,
			res.Err.Error())
		return res.Err
	}

	nf.log.Printf("[DEBUG] Displayed Notification %d (%q)\n",
		n.ID,
		title)

	return nil
} // func (nf *DBusNotifier) Notify(n *objects.Notification, transition string) error

// Dismiss withdraws the Notifications with the given IDs from the
// desktop, if they are still visible.
func (nf *DBusNotifier) Dismiss(ids []int64) error {
	var obj = nf.bus.Object(notifyObj, notifyPath)

	if obj == nil {
		var err = fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
		nf.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

	for _, id := range ids {
		var res = obj.Call(dismissMethod, 0, uint32(id))

		if res.Err != nil {
			nf.log.Printf("[ERROR] Cannot dismiss Notification %d: %s\n",
				id,
				res.Err.Error())
			return res.Err
		}
	}

	return nil
} // func (nf *DBusNotifier) Dismiss(ids []int64) error
