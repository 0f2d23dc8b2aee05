// /home/krylon/go/src/github.com/blicero/ariadne/backend/winner.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-21 17:33:10 krylon>

package backend

import (
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/objects"
)

// selectWinner persists the eligible batch and designates the last
// displayable Region of the batch as the one whose notification gets
// displayed. A Region without a notification, or whose notification
// fired too recently, is skipped and cannot win. If no Region of the
// batch is displayable, the slot stays untouched and no winner is
// returned.
//
// The designation lives in a single slot in the store, so claiming it
// for the new winner implicitly revokes it from the previous one.
//
// Selection across concurrent batches is serialized; two batches
// racing each other would otherwise interleave their writes and
// leave the slot pointing at one batch's winner while another batch's
// records were written last.
func (d *Daemon) selectWinner(res *classification) (*objects.Region, error) {
	var (
		err    error
		db     *database.Database
		winner *objects.Region
	)

	d.winnerLock.Lock()
	defer d.winnerLock.Unlock()

	db = d.pool.Get()
	defer d.pool.Put(db)

	for idx := range res.regions {
		var r = &res.regions[idx]

		if err = db.RegionPut(r); err != nil {
			d.log.Printf("[ERROR] Cannot update Region %s: %s\n",
				r.ID,
				err.Error())
			return nil, err
		}

		if r.Notification == nil {
			d.log.Printf("[DEBUG] Region %s has no notification attached, skipping it for display\n",
				r.ID)
			continue
		} else if !r.Notification.CanBeTriggered() {
			d.log.Printf("[DEBUG] Notification for Region %s fired too recently, skipping it for display\n",
				r.ID)
			continue
		}

		winner = r
	}

	if winner == nil {
		return nil, nil
	}

	if err = db.WinnerSet(winner.ID); err != nil {
		d.log.Printf("[ERROR] Cannot claim winner slot for Region %s: %s\n",
			winner.ID,
			err.Error())
		return nil, err
	}

	winner.IsLast = true
	return winner, nil
} // func (d *Daemon) selectWinner(res *classification) (*objects.Region, error)
