// /home/krylon/go/src/github.com/blicero/ariadne/backend/01_backend_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-19 22:10:36 krylon>

package backend

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/blicero/ariadne/bridge"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/transition"
	"github.com/pquerna/ffjson/ffjson"
)

const testAddr = "[::1]:7997"

var (
	back *Daemon
	rec  = new(recorder)
	buf  *bridge.Buffer
)

func TestSummon(t *testing.T) {
	var err error

	if buf, err = bridge.NewBuffer(); err != nil {
		t.Fatalf("Cannot create event buffer: %s", err.Error())
	} else if back, err = Summon(testAddr, rec, buf); err != nil {
		back = nil
		t.Fatalf("Cannot create Daemon: %s",
			err.Error())
	}

	// The stored delay is meant for a human entering or leaving a
	// place, for testing it just slows everything down.
	var db = back.pool.Get()
	defer back.pool.Put(db)

	if err = db.ConfigSet(objects.Config{Delay: 0}); err != nil {
		t.Fatalf("Cannot set delivery delay: %s", err.Error())
	}
} // func TestSummon(t *testing.T)

func regionPut(t *testing.T, r *objects.Region) {
	t.Helper()

	var db = back.pool.Get()
	defer back.pool.Put(db)

	if err := db.RegionPut(r); err != nil {
		t.Fatalf("Cannot store Region %s: %s",
			r.ID,
			err.Error())
	}
} // func regionPut(t *testing.T, r *objects.Region)

func winnerGet(t *testing.T) string {
	t.Helper()

	var db = back.pool.Get()
	defer back.pool.Put(db)

	var id, err = db.WinnerGet()
	if err != nil {
		t.Fatalf("Cannot query winner slot: %s", err.Error())
	}
	return id
} // func winnerGet(t *testing.T) string

func queueDrained() bool {
	return back.queue.PendingCount() == 0
} // func queueDrained() bool

func TestEventUnknownRegions(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"nobody", "home"},
	})

	time.Sleep(time.Millisecond * 250)

	if cnt := back.queue.PendingCount(); cnt != 0 {
		t.Errorf("Unknown Regions should schedule no jobs, but %d are pending",
			cnt)
	} else if cnt = rec.shownCnt(); cnt != 0 {
		t.Errorf("Unknown Regions should display nothing, but %d notifications were shown",
			cnt)
	} else if events := buf.Drain(); len(events) != 0 {
		t.Errorf("Unknown Regions should produce no frontend events, got %d",
			len(events))
	}
} // func TestEventUnknownRegions(t *testing.T)

func TestEventEnterDisplays(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	regionPut(t, &objects.Region{
		ID:        "office",
		Name:      "Office",
		Latitude:  53.071,
		Longitude: 8.799,
		Radius:    50,
		Notification: &objects.Notification{
			ID:    1,
			Title: "Office",
			Text:  "You have arrived at the office.",
		},
	})

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"office"},
	})

	if !waitFor(func() bool { return rec.shownCnt() == 1 }) {
		t.Fatalf("Expected 1 notification, got %d",
			rec.shownCnt())
	} else if !waitFor(func() bool { return winnerGet(t) == "" }) {
		t.Error("Winner slot was not released after delivery")
	}

	var events []objects.BridgeEvent

	if !waitFor(func() bool {
		events = append(events, buf.Drain()...)
		return len(events) > 0
	}) {
		t.Fatal("A displayed notification should be forwarded to the frontend")
	}

	if events[0].Kind != objects.BridgeTransition {
		t.Errorf("Unexpected event kind %q", events[0].Kind)
	} else if len(events[0].Regions) != 1 || events[0].Regions[0].ID != "office" {
		t.Errorf("Unexpected Region batch in frontend event: %#v",
			events[0].Regions)
	}
} // func TestEventEnterDisplays(t *testing.T)

func TestEventLastRegionWins(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	regionPut(t, &objects.Region{
		ID:        "gym",
		Name:      "Gym",
		Latitude:  53.08,
		Longitude: 8.81,
		Radius:    75,
		Notification: &objects.Notification{
			ID:    2,
			Title: "Gym",
			Text:  "Time to work out.",
		},
	})
	regionPut(t, &objects.Region{
		ID:        "pool",
		Name:      "Pool",
		Latitude:  53.081,
		Longitude: 8.811,
		Radius:    75,
		Notification: &objects.Notification{
			ID:    3,
			Title: "Pool",
			Text:  "Time for a swim.",
		},
	})

	var before = rec.shownCnt()

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"gym", "pool"},
	})

	if !waitFor(func() bool { return rec.shownCnt() == before+1 }) {
		t.Fatalf("Expected exactly 1 new notification, got %d",
			rec.shownCnt()-before)
	}

	time.Sleep(time.Millisecond * 250)

	rec.lock.Lock()
	var title = rec.shown[len(rec.shown)-1]
	var cnt = len(rec.shown)
	rec.lock.Unlock()

	if cnt != before+1 {
		t.Errorf("Expected exactly 1 new notification, got %d",
			cnt-before)
	} else if title != "Pool" {
		t.Errorf("The final Region of the batch should win, but %q was displayed",
			title)
	}
} // func TestEventLastRegionWins(t *testing.T)

func TestEventWinnerIsDisplayable(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	regionPut(t, &objects.Region{
		ID:        "bakery",
		Name:      "Bakery",
		Latitude:  53.075,
		Longitude: 8.805,
		Radius:    40,
		Notification: &objects.Notification{
			ID:    5,
			Title: "Bakery",
			Text:  "Fresh bread two doors down.",
		},
	})
	regionPut(t, &objects.Region{
		ID:        "mill",
		Name:      "Mill",
		Latitude:  53.076,
		Longitude: 8.806,
		Radius:    40,
	})

	var before = rec.shownCnt()

	// mill triggers last, but it has nothing to display, so the
	// winner slot must go to bakery.
	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"bakery", "mill"},
	})

	if !waitFor(func() bool { return rec.shownCnt() == before+1 }) {
		t.Fatalf("The displayable Region bakery should have displayed, but %d notifications were shown",
			rec.shownCnt()-before)
	}

	rec.lock.Lock()
	var title = rec.shown[len(rec.shown)-1]
	rec.lock.Unlock()

	if title != "Bakery" {
		t.Errorf("The last displayable Region of the batch should win, but %q was displayed",
			title)
	}

	if !waitFor(func() bool { return winnerGet(t) == "" }) {
		t.Error("Winner slot was not released after delivery")
	}
} // func TestEventWinnerIsDisplayable(t *testing.T)

func TestEventAllSkippedClaimsNoWinner(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var before = rec.shownCnt()

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"mill"},
	})

	time.Sleep(time.Millisecond * 250)

	if cnt := back.queue.PendingCount(); cnt != 0 {
		t.Errorf("A batch without a displayable Region should schedule no display job, but %d jobs are pending",
			cnt)
	} else if cnt = rec.shownCnt(); cnt != before {
		t.Errorf("A batch without a displayable Region should display nothing, but %d notifications were shown",
			cnt-before)
	} else if id := winnerGet(t); id != "" {
		t.Errorf("A batch without a displayable Region should claim no winner, but the slot holds %q",
			id)
	}
} // func TestEventAllSkippedClaimsNoWinner(t *testing.T)

func TestEventExitDisplaysNothing(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var before = rec.shownCnt()

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Exit,
		TriggeredRegionIDs: []string{"office"},
	})

	if !waitFor(func() bool { return winnerGet(t) == "office" }) {
		t.Fatal("The Exit batch should have claimed the winner slot for office")
	} else if !waitFor(queueDrained) {
		t.Fatal("The display job did not run")
	}

	time.Sleep(time.Millisecond * 250)

	// The skipped job must not put anything on the screen, and it
	// must not consume the winner slot either.
	if cnt := rec.shownCnt(); cnt != before {
		t.Errorf("An Exit transition must not display a notification, but %d were shown",
			cnt-before)
	} else if id := winnerGet(t); id != "office" {
		t.Errorf("A skipped job must leave the winner slot alone, but it holds %q",
			id)
	}
} // func TestEventExitDisplaysNothing(t *testing.T)

func TestEventEnterAfterExitSkip(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var before = rec.shownCnt()

	// The Exit job of the previous test skipped; office still holds
	// the slot, so this Enter must go through.
	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"office"},
	})

	if !waitFor(func() bool { return rec.shownCnt() == before+1 }) {
		t.Fatalf("The Enter job for office should display after the Exit job skipped, but %d notifications were shown",
			rec.shownCnt()-before)
	} else if !waitFor(func() bool { return winnerGet(t) == "" }) {
		t.Error("Winner slot was not released after delivery")
	}
} // func TestEventEnterAfterExitSkip(t *testing.T)

func TestEventSnoozedRegion(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var before = rec.shownCnt()

	back.snoozed.Snooze("office", 3600)

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"office"},
	})

	time.Sleep(time.Millisecond * 250)

	if cnt := back.queue.PendingCount(); cnt != 0 {
		t.Errorf("A snoozed Region should schedule no jobs, but %d are pending",
			cnt)
	} else if cnt = rec.shownCnt(); cnt != before {
		t.Errorf("A snoozed Region should display nothing, but %d notifications were shown",
			cnt-before)
	}
} // func TestEventSnoozedRegion(t *testing.T)

func TestEventOutsideTimeWindow(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var future = time.Now().Add(time.Hour * 24).UTC().Format(common.TimestampFormatWire)

	regionPut(t, &objects.Region{
		ID:        "concert",
		Name:      "Concert Hall",
		Latitude:  53.09,
		Longitude: 8.82,
		Radius:    100,
		StartTime: future,
		Notification: &objects.Notification{
			ID:    4,
			Title: "Concert",
			Text:  "The show is about to start.",
		},
	})

	var before = rec.shownCnt()

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"concert"},
	})

	time.Sleep(time.Millisecond * 250)

	if cnt := back.queue.PendingCount(); cnt != 0 {
		t.Errorf("A Region outside its time window should schedule no jobs, but %d are pending",
			cnt)
	} else if cnt = rec.shownCnt(); cnt != before {
		t.Errorf("A Region outside its time window should display nothing, but %d notifications were shown",
			cnt-before)
	}
} // func TestEventOutsideTimeWindow(t *testing.T)

func TestEventDwell(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	regionPut(t, &objects.Region{
		ID:             "cafe",
		Name:           "Cafe",
		Latitude:       53.072,
		Longitude:      8.8,
		Radius:         30,
		LoiteringDelay: 60000,
	})

	var before = rec.shownCnt()

	buf.Drain()

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Dwell,
		TriggeredRegionIDs: []string{"cafe"},
	})

	var events []objects.BridgeEvent

	if !waitFor(func() bool {
		events = append(events, buf.Drain()...)
		return len(events) > 0
	}) {
		t.Fatal("A Dwell transition should reach the frontend immediately")
	}

	if events[0].Kind != objects.BridgeTransition {
		t.Errorf("Unexpected event kind %q", events[0].Kind)
	} else if len(events[0].Regions) != 1 || events[0].Regions[0].ID != "cafe" {
		t.Errorf("Unexpected Region batch in frontend event: %#v",
			events[0].Regions)
	}

	time.Sleep(time.Millisecond * 250)

	if cnt := rec.shownCnt(); cnt != before {
		t.Errorf("A Dwell transition should display nothing, but %d notifications were shown",
			cnt-before)
	}
} // func TestEventDwell(t *testing.T)

func TestEventError(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	buf.Drain()

	back.SubmitEvent(objects.TransitionEvent{
		Error: "location provider went away",
	})

	var events []objects.BridgeEvent

	if !waitFor(func() bool {
		events = append(events, buf.Drain()...)
		return len(events) > 0
	}) {
		t.Fatal("A provider error should reach the frontend")
	}

	if events[0].Kind != objects.BridgeError {
		t.Errorf("Unexpected event kind %q", events[0].Kind)
	}
} // func TestEventError(t *testing.T)

func TestWebhookDelivery(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var (
		lock     sync.Mutex
		payloads []webhookPayload
		auth     string
	)

	var srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			body []byte
			pl   webhookPayload
			err  error
		)

		if body, err = io.ReadAll(r.Body); err != nil {
			t.Errorf("Cannot read webhook body: %s", err.Error())
		} else if err = ffjson.Unmarshal(body, &pl); err != nil {
			t.Errorf("Cannot parse webhook body %q: %s",
				body,
				err.Error())
		}

		lock.Lock()
		payloads = append(payloads, pl)
		auth = r.Header.Get("Authorization")
		lock.Unlock()

		w.WriteHeader(200)
	}))
	defer srv.Close()

	regionPut(t, &objects.Region{
		ID:            "warehouse",
		Name:          "Warehouse",
		Latitude:      53.1,
		Longitude:     8.83,
		Radius:        200,
		URL:           srv.URL,
		Authorization: "Bearer hunter2",
	})

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Enter,
		TriggeredRegionIDs: []string{"warehouse"},
	})

	if !waitFor(func() bool {
		lock.Lock()
		var cnt = len(payloads)
		lock.Unlock()
		return cnt == 1
	}) {
		t.Fatal("Webhook was not delivered")
	}

	lock.Lock()
	defer lock.Unlock()

	if payloads[0].ID != "warehouse" {
		t.Errorf("Unexpected Region ID in webhook payload: %q",
			payloads[0].ID)
	} else if payloads[0].URL != srv.URL {
		t.Errorf("Unexpected URL in webhook payload: %q",
			payloads[0].URL)
	} else if payloads[0].Authorization != "Bearer hunter2" {
		t.Errorf("Unexpected Authorization in webhook payload: %q",
			payloads[0].Authorization)
	} else if payloads[0].Transition != "ENTER" {
		t.Errorf("Unexpected transition in webhook payload: %q",
			payloads[0].Transition)
	} else if payloads[0].Date == "" {
		t.Error("Webhook payload carries no timestamp")
	} else if auth != "Bearer hunter2" {
		t.Errorf("Unexpected Authorization header: %q", auth)
	}
} // func TestWebhookDelivery(t *testing.T)

func TestWebhookRetry(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var (
		lock sync.Mutex
		hits int
	)

	var srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		hits++
		var n = hits
		lock.Unlock()

		if n == 1 {
			w.WriteHeader(500)
		} else {
			w.WriteHeader(200)
		}
	}))
	defer srv.Close()

	// Redelivery normally waits a few seconds. For the test we shrink
	// the wait so the retry happens within the polling window.
	back.queue.SetRedeliveryDelay(time.Millisecond * 100)
	defer back.queue.SetRedeliveryDelay(0)

	regionPut(t, &objects.Region{
		ID:        "harbor",
		Name:      "Harbor",
		Latitude:  53.12,
		Longitude: 8.75,
		Radius:    300,
		URL:       srv.URL,
	})

	back.SubmitEvent(objects.TransitionEvent{
		TransitionType:     transition.Exit,
		TriggeredRegionIDs: []string{"harbor"},
	})

	if !waitFor(func() bool {
		lock.Lock()
		var cnt = hits
		lock.Unlock()
		return cnt >= 2
	}) {
		t.Fatalf("Webhook was not retried after a failure, %d attempts seen",
			hits)
	}
} // func TestWebhookRetry(t *testing.T)

func TestHTTPFenceAll(t *testing.T) {
	if back == nil {
		t.SkipNow()
	}

	var (
		err     error
		hres    *http.Response
		body    []byte
		regions []objects.Region
	)

	if hres, err = http.Get("http://" + testAddr + "/fence/all"); err != nil {
		t.Fatalf("Cannot fetch Region list: %s", err.Error())
	}

	defer hres.Body.Close() // nolint: errcheck

	if hres.StatusCode != 200 {
		t.Fatalf("Unexpected HTTP status: %s", hres.Status)
	} else if body, err = io.ReadAll(hres.Body); err != nil {
		t.Fatalf("Cannot read Region list: %s", err.Error())
	} else if err = ffjson.Unmarshal(body, &regions); err != nil {
		t.Fatalf("Cannot parse Region list %q: %s",
			body,
			err.Error())
	}

	var found bool
	for idx := range regions {
		if regions[idx].ID == "office" {
			found = true
			break
		}
	}

	if !found {
		t.Errorf("Region office is missing from the watched list (%d Regions returned)",
			len(regions))
	}
} // func TestHTTPFenceAll(t *testing.T)
