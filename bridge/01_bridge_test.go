// /home/krylon/go/src/github.com/blicero/ariadne/bridge/01_bridge_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-13 19:01:26 krylon>

package bridge

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/ariadne_bridge_test_20060102_150405")
	)

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)

func TestBufferOrder(t *testing.T) {
	var (
		err error
		b   *Buffer
	)

	if b, err = NewBuffer(); err != nil {
		t.Fatalf("Cannot create Buffer: %s", err.Error())
	}

	b.TransitionReceived([]objects.Region{ // nolint: errcheck
		objects.Region{ID: "fence-001"},
		objects.Region{ID: "fence-002"},
	})
	b.EventError("Location services error: 1000") // nolint: errcheck
	b.NotificationClicked(`{"foo": 42}`)          // nolint: errcheck

	var events = b.Drain()

	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	} else if events[0].Kind != objects.BridgeTransition {
		t.Errorf("First event should be a transition, is %q", events[0].Kind)
	} else if len(events[0].Regions) != 2 || events[0].Regions[0].ID != "fence-001" {
		t.Error("Transition event lost its Regions or their order")
	} else if events[1].Kind != objects.BridgeError {
		t.Errorf("Second event should be an error, is %q", events[1].Kind)
	} else if events[2].Kind != objects.BridgeClick {
		t.Errorf("Third event should be a click, is %q", events[2].Kind)
	}

	if events = b.Drain(); len(events) != 0 {
		t.Errorf("Draining twice should yield nothing, got %d events",
			len(events))
	}
} // func TestBufferOrder(t *testing.T)
