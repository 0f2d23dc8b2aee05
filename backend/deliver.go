// /home/krylon/go/src/github.com/blicero/ariadne/backend/deliver.go
// -*- mode: go; coding: utf-8; -*-
// Created on 15. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-16 20:41:33 krylon>

package backend

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/jobq"
	"github.com/blicero/ariadne/objects"
	"github.com/pquerna/ffjson/ffjson"
)

// runDisplayJob is the handler for deferred notification jobs. By the
// time the job comes due, the world may have moved on, so every
// condition is checked again against the store: the Region may have
// been removed or snoozed in the meantime, another batch may have
// claimed the winner slot, or the notification may have fired too
// recently to fire again.
//
// Only an Enter transition ever reaches the screen, and only an
// actual display consumes the winner slot. A skipped job leaves the
// slot alone, so a later job for the same Region can still deliver.
//
// The job serializes with winner selection so a slot freshly claimed
// by a newer batch cannot be wiped by a stale job.
func (d *Daemon) runDisplayJob(j *jobq.Job) error {
	var (
		err error
		db  *database.Database
		rec *objects.Region
		id  = j.Get("region")
	)

	d.winnerLock.Lock()
	defer d.winnerLock.Unlock()

	db = d.pool.Get()
	defer d.pool.Put(db)

	if rec, err = db.RegionGet(id); err != nil {
		d.log.Printf("[ERROR] Cannot look up Region %s for job %s: %s\n",
			id,
			j,
			err.Error())
		return err
	} else if rec == nil {
		d.log.Printf("[DEBUG] Region %s was removed, dropping job %s\n",
			id,
			j)
		return nil
	} else if !rec.IsLast {
		d.log.Printf("[DEBUG] Region %s lost the winner slot, dropping job %s\n",
			id,
			j)
		return nil
	}

	var display = true

	if !strings.EqualFold(j.Get("transition"), "ENTER") {
		d.log.Printf("[DEBUG] Job %s is not an Enter transition, skipping display\n",
			j)
		display = false
	} else if rec.Notification == nil {
		d.log.Printf("[DEBUG] Region %s has no notification attached, skipping display\n",
			id)
		display = false
	} else if d.snoozed.IsSnoozed(id) {
		d.log.Printf("[DEBUG] Region %s was snoozed while job %s was pending, skipping display\n",
			id,
			j)
		display = false
	} else if !rec.Notification.CanBeTriggered() {
		d.log.Printf("[DEBUG] Notification for Region %s fired too recently, skipping display\n",
			id)
		display = false
	}

	if display {
		if err = d.notifier.Notify(rec.Notification, rec.TransitionType.Label()); err != nil {
			d.log.Printf("[ERROR] Cannot display notification for Region %s: %s\n",
				id,
				err.Error())
			return err
		} else if err = db.NotificationSetLastTriggered(rec, time.Now()); err != nil {
			d.log.Printf("[ERROR] Cannot update trigger stamp for Region %s: %s\n",
				id,
				err.Error())
			return err
		} else if err = d.bridge.TransitionReceived([]objects.Region{*rec}); err != nil {
			// The notification is on the screen at this point, so we
			// only log the failure instead of asking for a retry.
			d.log.Printf("[ERROR] Cannot forward displayed Region %s to frontend: %s\n",
				id,
				err.Error())
		}

		if err = db.WinnerClear(); err != nil {
			d.log.Printf("[ERROR] Cannot release winner slot after job %s: %s\n",
				j,
				err.Error())
			return err
		}

		d.log.Printf("[INFO] Displayed notification for Region %s\n", id)
	}

	return nil
} // func (d *Daemon) runDisplayJob(j *jobq.Job) error

type webhookPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Authorization string `json:"authorization"`
	Transition    string `json:"transition"`
	Date          string `json:"date"`
}

// runWebhookJob posts the transition to the URL configured on the
// Region. Anything but a 2xx answer counts as a failure, so the queue
// will try again later.
func (d *Daemon) runWebhookJob(j *jobq.Job) error {
	var (
		err  error
		buf  []byte
		req  *http.Request
		resp *http.Response
		pl   = webhookPayload{
			ID:            j.Get("region"),
			URL:           j.Get("url"),
			Authorization: j.Get("authorization"),
			Transition:    j.Get("transition"),
			Date:          j.Get("date"),
		}
	)

	if buf, err = ffjson.Marshal(&pl); err != nil {
		d.log.Printf("[CANTHAPPEN] Cannot serialize webhook payload for job %s: %s\n",
			j,
			err.Error())
		return nil
	}

	defer ffjson.Pool(buf)

	if req, err = http.NewRequest(http.MethodPost, j.Get("url"), bytes.NewReader(buf)); err != nil {
		d.log.Printf("[ERROR] Cannot create webhook request for job %s: %s\n",
			j,
			err.Error())
		return nil
	}

	req.Header.Set("Content-Type", "application/json")
	if auth := j.Get("authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	if resp, err = d.client.Do(req); err != nil {
		d.log.Printf("[ERROR] Webhook request for job %s failed: %s\n",
			j,
			err.Error())
		return err
	}

	defer resp.Body.Close() // nolint: errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("webhook for Region %s got HTTP status %s",
			j.Get("region"),
			resp.Status)
		d.log.Printf("[ERROR] %s\n", err.Error())
		return err
	}

	d.log.Printf("[INFO] Webhook for Region %s delivered to %s\n",
		j.Get("region"),
		j.Get("url"))
	return nil
} // func (d *Daemon) runWebhookJob(j *jobq.Job) error
