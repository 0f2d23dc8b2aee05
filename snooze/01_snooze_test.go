// /home/krylon/go/src/github.com/blicero/ariadne/snooze/01_snooze_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-08 11:30:12 krylon>

package snooze

import "testing"

func TestSnooze(t *testing.T) {
	var reg = NewRegistry()

	if reg.IsSnoozed("nowhere") {
		t.Error("A Region that was never snoozed should not be snoozed")
	}

	reg.Snooze("home", 3600)

	if !reg.IsSnoozed("home") {
		t.Error("Region home should be snoozed for the next hour")
	} else if reg.IsSnoozed("work") {
		t.Error("Region work should not be affected by snoozing home")
	}

	// A negative TTL yields an expiry in the past.
	reg.Snooze("home", -1)

	if reg.IsSnoozed("home") {
		t.Error("An expired snooze should not suppress the Region")
	}
} // func TestSnooze(t *testing.T)
