// /home/krylon/go/src/github.com/blicero/ariadne/backend/classify.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-14 21:10:08 krylon>

package backend

import (
	"fmt"
	"time"

	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/transition"
)

type resultKind uint8

const (
	resEdge resultKind = iota
	resDwell
	resError
)

func (k resultKind) String() string {
	switch k {
	case resEdge:
		return "Edge"
	case resDwell:
		return "Dwell"
	case resError:
		return "Error"
	default:
		return "Unknown Result"
	}
} // func (k resultKind) String() string

// classification is what the classifier turns a raw transition event
// into: the kind of outcome, and the Regions that are eligible to
// react, in trigger order.
type classification struct {
	kind    resultKind
	trans   transition.Type
	regions []objects.Region
	err     string
}

// classify filters a transition event against the store: a triggered
// Region is eligible if it exists, is not snoozed, and its time window
// contains the present moment. Eligible Regions get their
// TransitionType overwritten with the edge that actually fired.
//
// An empty eligible list is not an error, it just means nothing
// happens downstream.
func (d *Daemon) classify(ev *objects.TransitionEvent) *classification {
	var res = &classification{trans: ev.TransitionType}

	if ev.Error != "" {
		res.kind = resError
		res.err = "Location services error: " + ev.Error
		return res
	} else if !ev.TransitionType.Valid() {
		res.kind = resError
		res.err = fmt.Sprintf("Geofence transition error: %d",
			ev.TransitionType)
		return res
	}

	var (
		err error
		db  *database.Database
		now = time.Now()
	)

	db = d.pool.Get()
	defer d.pool.Put(db)

	res.regions = make([]objects.Region, 0, len(ev.TriggeredRegionIDs))

	for _, id := range ev.TriggeredRegionIDs {
		var rec *objects.Region

		if rec, err = db.RegionGet(id); err != nil {
			// A store failure aborts the whole pass, cf. the
			// comment in handleTransition.
			res.kind = resError
			res.err = fmt.Sprintf("Cannot look up Region %s: %s",
				id,
				err.Error())
			res.regions = nil
			return res
		} else if rec == nil {
			d.log.Printf("[DEBUG] Region %s is not in the store, skipping it\n",
				id)
			continue
		} else if d.snoozed.IsSnoozed(id) {
			d.log.Printf("[DEBUG] Region %s is snoozed, skipping it\n",
				id)
			continue
		} else if !rec.IsWithinTimeRange(now) {
			d.log.Printf("[DEBUG] Region %s is outside its time window, skipping it\n",
				id)
			continue
		}

		rec.TransitionType = ev.TransitionType
		res.regions = append(res.regions, *rec)
	}

	if ev.TransitionType == transition.Dwell {
		res.kind = resDwell
	} else {
		res.kind = resEdge
	}

	return res
} // func (d *Daemon) classify(ev *objects.TransitionEvent) *classification

// handleTransition runs one transition event through the whole
// pipeline: classify, pick the winner, schedule delivery.
//
// Errors never crash the pipeline. At worst the batch is dropped and
// the failure is recorded in the outbound feed for the frontend to
// inspect. A store failure mid-selection is not rolled back, this is
// a best-effort boundary, not a transactional one.
func (d *Daemon) handleTransition(ev *objects.TransitionEvent) {
	var res = d.classify(ev)

	switch res.kind {
	case resError:
		d.log.Printf("[ERROR] %s\n", res.err)
		if err := d.bridge.EventError(res.err); err != nil {
			d.log.Printf("[ERROR] Cannot forward error to frontend: %s\n",
				err.Error())
		}
		return
	case resDwell:
		if len(res.regions) == 0 {
			return
		}

		d.log.Println("[DEBUG] Geofence transition dwell detected")

		// Dwell events bypass the winner and delay machinery, the
		// batch goes straight to the frontend.
		if err := d.bridge.TransitionReceived(res.regions); err != nil {
			d.log.Printf("[ERROR] Cannot forward dwell batch to frontend: %s\n",
				err.Error())
		}
	case resEdge:
		if len(res.regions) == 0 {
			return
		}

		d.log.Println("[DEBUG] Geofence transition detected")

		var (
			err    error
			winner *objects.Region
		)

		if winner, err = d.selectWinner(res); err != nil {
			var msg = fmt.Sprintf("Winner selection failed: %s",
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			if err = d.bridge.EventError(msg); err != nil {
				d.log.Printf("[ERROR] Cannot forward error to frontend: %s\n",
					err.Error())
			}
			return
		}

		// No displayable Region in the batch means no display job,
		// but the webhooks below still go out.
		if winner != nil {
			d.scheduleDisplay(res, winner)
		}
	}

	d.scheduleWebhooks(res)
} // func (d *Daemon) handleTransition(ev *objects.TransitionEvent)
