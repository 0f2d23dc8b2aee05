// /home/krylon/go/src/github.com/blicero/ariadne/backend/backend.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-14 20:37:44 krylon>

// Package backend implements the core of the application: it accepts
// transition events from the location provider, decides which watched
// Regions should react, and schedules the delivery of notifications
// and webhook calls.
package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/blicero/ariadne/bridge"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/database"
	"github.com/blicero/ariadne/jobq"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/notify"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/snooze"
	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
)

const (
	eventQueueDepth = 16
	eventWorkerCnt  = 4
	loopTimeout     = time.Second * 2
)

// Daemon is the centerpiece of the backend, coordinating between the
// location provider, the database, the job queue, and the frontend.
type Daemon struct {
	log        *log.Logger
	pool       *database.Pool
	queue      *jobq.Queue
	notifier   notify.Notifier
	bridge     bridge.Bridge
	snoozed    *snooze.Registry
	web        http.Server
	router     *mux.Router
	listenAddr string
	hostname   string
	dnssd      *zeroconf.Server
	client     http.Client
	lock       sync.RWMutex
	active     bool
	winnerLock sync.Mutex
	events     chan objects.TransitionEvent
	idLock     sync.Mutex
	idCnt      int64
}

// Summon summons a Daemon and returns it. No sacrifice or idolatry is
// required. The Notifier and the Bridge are passed in by the caller,
// they live exactly as long as the Daemon does.
func Summon(addr string, nf notify.Notifier, br bridge.Bridge) (*Daemon, error) {
	var (
		err error
		d   = &Daemon{
			listenAddr: addr,
			active:     true,
			notifier:   nf,
			bridge:     br,
			snoozed:    snooze.NewRegistry(),
			router:     mux.NewRouter(),
			events:     make(chan objects.TransitionEvent, eventQueueDepth),
			client:     http.Client{Timeout: time.Second * 10},
		}
	)

	if d.log, err = common.GetLogger(logdomain.Backend); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	} else if d.pool, err = database.NewPool(eventWorkerCnt + 2); err != nil {
		d.log.Printf("[ERROR] Cannot initialize database pool: %s\n",
			err.Error())
		return nil, err
	} else if d.queue, err = jobq.NewQueue(); err != nil {
		d.log.Printf("[ERROR] Cannot initialize job queue: %s\n",
			err.Error())
		return nil, err
	} else if d.hostname, err = os.Hostname(); err != nil {
		d.log.Printf("[ERROR] Cannot query hostname: %s\n",
			err.Error())
		return nil, err
	}

	d.queue.RegisterHandler(jobq.Display, d.runDisplayJob)
	d.queue.RegisterHandler(jobq.Webhook, d.runWebhookJob)

	d.web.Addr = addr
	d.web.ErrorLog = d.log
	d.web.Handler = d.router

	if err = d.initWebHandlers(); err != nil {
		d.log.Printf("[ERROR] Failed to initialize web server: %s\n",
			err.Error())
		return nil, err
	}

	if err = d.initDNSSd(); err != nil {
		// Not fatal, we keep going without the announcement.
		d.log.Printf("[WARN] Cannot announce service via DNS-SD: %s\n",
			err.Error())
	}

	d.queue.Start()

	for i := 0; i < eventWorkerCnt; i++ {
		go d.eventLoop()
	}

	go d.serveHTTP()

	return d, nil
} // func Summon(addr string, nf notify.Notifier, br bridge.Bridge) (*Daemon, error)

// IsAlive returns true if the Daemon's active flag is set.
func (d *Daemon) IsAlive() bool {
	d.lock.RLock()
	var alive = d.active
	d.lock.RUnlock()

	return alive
} // func (d *Daemon) IsAlive() bool

// Banish clears the Daemon's active flag, telling components to shut down.
func (d *Daemon) Banish() error {
	var (
		err         error
		ctx, cancel = context.WithTimeout(context.Background(), time.Second*3)
	)
	defer cancel()

	if d.dnssd != nil {
		d.dnssd.Shutdown()
		d.dnssd = nil
	}

	d.queue.Stop()

	if err = d.web.Shutdown(ctx); err != nil {
		d.log.Printf("[ERROR] Failed to shutdown web server: %s\n",
			err.Error())
	}

	if ctx.Err() != nil {
		err = ctx.Err()
		d.log.Printf("[ERROR] Failed to gracefully shut down web server: %s\n",
			ctx.Err().Error())
		d.web.Close() // nolint: errcheck
	}

	d.lock.Lock()
	d.active = false
	d.lock.Unlock()
	return err
} // func (d *Daemon) Banish() error

// SubmitEvent hands a transition event from the location provider to
// the worker pool. It does not wait for the event to be processed.
func (d *Daemon) SubmitEvent(ev objects.TransitionEvent) {
	d.events <- ev
} // func (d *Daemon) SubmitEvent(ev objects.TransitionEvent)

func (d *Daemon) eventLoop() {
	defer d.log.Println("[TRACE] Quitting eventLoop")

	var tick = time.NewTicker(loopTimeout)
	defer tick.Stop()

	for d.IsAlive() {
		select {
		case <-tick.C:
			continue
		case ev := <-d.events:
			d.handleTransition(&ev)
		}
	}
} // func (d *Daemon) eventLoop()

func (d *Daemon) getID() int64 {
	d.idLock.Lock()
	d.idCnt++
	var id = d.idCnt
	d.idLock.Unlock()
	return id
} // func (d *Daemon) getID() int64
