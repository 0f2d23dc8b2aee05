// /home/krylon/go/src/github.com/blicero/ariadne/backend/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 13. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-17 19:48:26 krylon>

package backend

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/blicero/ariadne/bridge"
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/objects"
	"github.com/gorilla/mux"
	"github.com/pquerna/ffjson/ffjson"
)

func (d *Daemon) initWebHandlers() error {
	d.router.HandleFunc("/init", d.handleInit)
	d.router.HandleFunc("/fence/add", d.handleFenceAdd)
	d.router.HandleFunc("/fence/all", d.handleFenceGetAll)
	d.router.HandleFunc("/fence/removeall", d.handleFenceRemoveAll)
	d.router.HandleFunc("/fence/{id}/remove", d.handleFenceRemove)
	d.router.HandleFunc("/fence/{id}/snooze", d.handleFenceSnooze)
	d.router.HandleFunc("/event", d.handleEventSubmit)
	d.router.HandleFunc("/event/pending", d.handleEventGetPending)
	d.router.HandleFunc("/notification/dismiss", d.handleNotificationDismiss)
	d.router.HandleFunc("/notification/{id:(?:\\d+)}/clicked", d.handleNotificationClicked)

	return nil
} // func (d *Daemon) initWebHandlers() error

func (d *Daemon) serveHTTP() {
	var err error

	defer d.log.Println("[INFO] Web server is shutting down")

	d.log.Printf("[INFO] Web frontend is going online at %s\n", d.web.Addr)
	http.Handle("/", d.router)

	if err = d.web.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			d.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			d.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (d *Daemon) serveHTTP()

// handleInit is the handshake the frontend performs on startup. It can
// set the delivery delay, and it tells the frontend the daemon is
// there and listening.
func (d *Daemon) handleInit(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err       error
		db        *database.Database
		dstr, msg string
		delay     int64
		res       = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	dstr = r.FormValue("delay")

	if dstr != "" {
		if delay, err = strconv.ParseInt(dstr, 10, 32); err != nil {
			msg = fmt.Sprintf("Cannot parse delay %q: %s",
				dstr,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}

		db = d.pool.Get()
		defer d.pool.Put(db)

		if err = db.ConfigSet(objects.Config{Delay: int(delay)}); err != nil {
			msg = fmt.Sprintf("Cannot save Config: %s",
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}
	}

	res.Status = true
	res.Message = "OK"

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleInit(w http.ResponseWriter, r *http.Request)

// handleFenceAdd accepts a JSON array of Regions in the request body
// and stores them, replacing any Regions that already exist under the
// same IDs.
func (d *Daemon) handleFenceAdd(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err     error
		db      *database.Database
		body    []byte
		msg     string
		regions []objects.Region
		res     = objects.Response{ID: d.getID()}
	)

	if body, err = io.ReadAll(r.Body); err != nil {
		msg = fmt.Sprintf("Cannot read request body: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	} else if err = ffjson.Unmarshal(body, &regions); err != nil {
		msg = fmt.Sprintf("Cannot parse Region list: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	db = d.pool.Get()
	defer d.pool.Put(db)

	for idx := range regions {
		var reg = &regions[idx]

		if reg.ID == "" {
			msg = "Region has no ID"
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		} else if err = db.RegionPut(reg); err != nil {
			msg = fmt.Sprintf("Cannot store Region %s: %s",
				reg.ID,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}
	}

	res.Message = fmt.Sprintf("%d Regions were stored", len(regions))
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleFenceAdd(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleFenceGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err     error
		db      *database.Database
		regions []objects.Region
		buf     []byte
	)

	db = d.pool.Get()
	defer d.pool.Put(db)

	if regions, err = db.RegionGetAll(); err != nil {
		var msg = fmt.Sprintf("Cannot load Regions: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		d.sendErrorJSON(w, msg)
		return
	} else if buf, err = ffjson.Marshal(regions); err != nil {
		var msg = fmt.Sprintf("Cannot serialize Region list: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		d.sendErrorJSON(w, msg)
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleFenceGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleFenceRemove(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		vars map[string]string
		db   *database.Database
		msg  string
		res  = objects.Response{ID: d.getID()}
	)

	vars = mux.Vars(r)

	db = d.pool.Get()
	defer d.pool.Put(db)

	if err = db.RegionDelete(vars["id"]); err != nil {
		msg = fmt.Sprintf("Cannot delete Region %s: %s",
			vars["id"],
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Message = fmt.Sprintf("Region %s was deleted", vars["id"])
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleFenceRemove(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleFenceRemoveAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		db  *database.Database
		msg string
		res = objects.Response{ID: d.getID()}
	)

	db = d.pool.Get()
	defer d.pool.Put(db)

	if err = db.RegionDeleteAll(); err != nil {
		msg = fmt.Sprintf("Cannot delete Regions: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Message = "All Regions were deleted"
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleFenceRemoveAll(w http.ResponseWriter, r *http.Request)

// handleFenceSnooze mutes a Region for a number of seconds given in
// the form field "duration".
func (d *Daemon) handleFenceSnooze(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err       error
		vars      map[string]string
		dstr, msg string
		ttl       int64
		res       = objects.Response{ID: d.getID()}
	)

	vars = mux.Vars(r)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	dstr = r.FormValue("duration")

	if ttl, err = strconv.ParseInt(dstr, 10, 64); err != nil {
		msg = fmt.Sprintf("Cannot parse duration %q: %s",
			dstr,
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	} else if ttl <= 0 {
		msg = fmt.Sprintf("Duration must be positive, got %d", ttl)
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	d.snoozed.Snooze(vars["id"], ttl)

	res.Message = fmt.Sprintf("Region %s is snoozed for %d seconds",
		vars["id"],
		ttl)
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleFenceSnooze(w http.ResponseWriter, r *http.Request)

// handleEventSubmit accepts a transition event from the location layer
// and feeds it into the pipeline. The response only acknowledges
// receipt, processing happens asynchronously.
func (d *Daemon) handleEventSubmit(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		body []byte
		msg  string
		ev   objects.TransitionEvent
		res  = objects.Response{ID: d.getID()}
	)

	if body, err = io.ReadAll(r.Body); err != nil {
		msg = fmt.Sprintf("Cannot read request body: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	} else if err = ffjson.Unmarshal(body, &ev); err != nil {
		msg = fmt.Sprintf("Cannot parse transition event: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	d.SubmitEvent(ev)

	res.Message = "OK"
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleEventSubmit(w http.ResponseWriter, r *http.Request)

// handleEventGetPending drains the outbound event buffer. It only
// works if the Daemon was wired up with the buffering bridge; a
// frontend that gets its events pushed some other way has no business
// polling this endpoint.
func (d *Daemon) handleEventGetPending(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err    error
		buf    []byte
		events []objects.BridgeEvent
	)

	if b, ok := d.bridge.(*bridge.Buffer); ok {
		events = b.Drain()
	} else {
		d.log.Println("[WARNING] Frontend polled for events, but the bridge is not a buffer")
		events = make([]objects.BridgeEvent, 0)
	}

	if buf, err = ffjson.Marshal(events); err != nil {
		d.log.Printf("[ERROR] Cannot serialize event list: %s\n",
			err.Error())

	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleEventGetPending(w http.ResponseWriter, r *http.Request)

// handleNotificationDismiss closes on-screen notifications. The form
// field "ids" holds a comma-separated list of notification IDs.
func (d *Daemon) handleNotificationDismiss(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		msg string
		ids []int64
		res = objects.Response{ID: d.getID()}
	)

	if err = r.ParseForm(); err != nil {
		msg = fmt.Sprintf("Cannot parse form data: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	for _, s := range strings.Split(r.FormValue("ids"), ",") {
		var id int64

		if s = strings.TrimSpace(s); s == "" {
			continue
		} else if id, err = strconv.ParseInt(s, 10, 64); err != nil {
			msg = fmt.Sprintf("Cannot parse notification ID %q: %s",
				s,
				err.Error())
			d.log.Printf("[ERROR] %s\n", msg)
			res.Message = msg
			goto SEND_RESPONSE
		}

		ids = append(ids, id)
	}

	if err = d.notifier.Dismiss(ids); err != nil {
		msg = fmt.Sprintf("Cannot dismiss notifications: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Message = fmt.Sprintf("%d notifications were dismissed", len(ids))
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleNotificationDismiss(w http.ResponseWriter, r *http.Request)

// handleNotificationClicked forwards a click on a notification to the
// frontend, along with whatever payload the Region carried.
func (d *Daemon) handleNotificationClicked(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err  error
		msg  string
		body []byte
		res  = objects.Response{ID: d.getID()}
	)

	if body, err = io.ReadAll(r.Body); err != nil {
		msg = fmt.Sprintf("Cannot read request body: %s", err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	} else if err = d.bridge.NotificationClicked(string(body)); err != nil {
		msg = fmt.Sprintf("Cannot forward notification click: %s",
			err.Error())
		d.log.Printf("[ERROR] %s\n", msg)
		res.Message = msg
		goto SEND_RESPONSE
	}

	res.Message = "OK"
	res.Status = true

SEND_RESPONSE:
	d.sendResponseJSON(w, &res)
} // func (d *Daemon) handleNotificationClicked(w http.ResponseWriter, r *http.Request)

//////////////////////////////////////////////////////////////////////////////////////////////////
/// Helpers //////////////////////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////////////////////////

func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(res); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			res,
			err.Error())
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response)

// sendErrorJSON answers with the Response envelope and a 500 status,
// so a client can tell an empty result from a failed one.
func (d *Daemon) sendErrorJSON(w http.ResponseWriter, msg string) {
	var (
		err error
		buf []byte
		res = objects.Response{ID: d.getID(), Message: msg}
	)

	if buf, err = ffjson.Marshal(&res); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			&res,
			err.Error())
		http.Error(w, msg, 500)
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(500)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendErrorJSON(w http.ResponseWriter, msg string)
