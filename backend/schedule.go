// /home/krylon/go/src/github.com/blicero/ariadne/backend/schedule.go
// -*- mode: go; coding: utf-8; -*-
// Created on 14. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-15 19:22:47 krylon>

package backend

import (
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/jobq"
	"github.com/blicero/ariadne/objects"
)

// scheduleDisplay enqueues the deferred notification job for the
// winner of an edge batch. The delay comes from the stored Config; if
// the store cannot be asked, the default delay is used rather than
// dropping the job.
func (d *Daemon) scheduleDisplay(res *classification, winner *objects.Region) {
	var (
		err error
		db  *database.Database
		cfg objects.Config
		id  int64
	)

	db = d.pool.Get()

	if cfg, err = db.ConfigGet(); err != nil {
		d.log.Printf("[ERROR] Cannot load Config, falling back to default delay: %s\n",
			err.Error())
		cfg = objects.DefaultConfig()
	}

	d.pool.Put(db)

	id = d.queue.Enqueue(jobq.Display,
		cfg.DelayDuration(),
		false,
		map[string]string{
			"region":     winner.ID,
			"transition": res.trans.Wire(),
			"date":       time.Now().UTC().Format(common.TimestampFormatWire),
		})

	d.log.Printf("[DEBUG] Scheduled notification job %d for Region %s (%s), due in %s\n",
		id,
		winner.ID,
		res.trans,
		cfg.DelayDuration())
} // func (d *Daemon) scheduleDisplay(res *classification, winner *objects.Region)

// scheduleWebhooks enqueues one webhook job per eligible Region that
// has a URL configured. Webhook jobs carry no artificial delay, but
// they do not run until the network is reachable.
func (d *Daemon) scheduleWebhooks(res *classification) {
	var now = time.Now().UTC().Format(common.TimestampFormatWire)

	for idx := range res.regions {
		var r = &res.regions[idx]

		if r.URL == "" {
			continue
		}

		var id = d.queue.Enqueue(jobq.Webhook,
			0,
			true,
			map[string]string{
				"region":        r.ID,
				"url":           r.URL,
				"authorization": r.Authorization,
				"transition":    res.trans.Wire(),
				"date":          now,
			})

		d.log.Printf("[DEBUG] Scheduled webhook job %d for Region %s -> %s\n",
			id,
			r.ID,
			r.URL)
	}
} // func (d *Daemon) scheduleWebhooks(res *classification)
