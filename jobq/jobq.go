// /home/krylon/go/src/github.com/blicero/ariadne/jobq/jobq.go
// -*- mode: go; coding: utf-8; -*-
// Created on 25. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-13 16:48:29 krylon>

// Package jobq implements a small in-process queue for deferred jobs.
//
// A job is a bag of string key/value pairs handed to a handler
// registered for the job's Kind. A job can be held back for a minimum
// delay, and it can be marked as requiring network connectivity, in
// which case it is not dispatched until the readiness probe says the
// network is there. If a handler returns an error the job is
// re-queued and delivered again later; the worker itself does no
// backoff bookkeeping, it only signals failure.
//
// Job IDs are monotonically increasing within a Kind, and each Kind
// draws from its own disjoint range, so jobs of different kinds can
// never collide. Duplicate IDs, should a client fabricate them, are
// harmless, the queue never looks jobs up by ID.
package jobq

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
)

// Kind tells the Queue which handler a Job belongs to.
type Kind uint8

// The known job kinds.
const (
	Display Kind = iota + 1
	Webhook
)

func (k Kind) String() string {
	switch k {
	case Display:
		return "Display"
	case Webhook:
		return "Webhook"
	default:
		return "Unknown Kind"
	}
} // func (k Kind) String() string

// Each Kind assigns IDs from its own range of this size.
const kindRange int64 = 1_000_000_000

const (
	checkInterval   = time.Millisecond * 100
	redeliveryDelay = time.Second * 5
)

// Job is one unit of deferred work.
type Job struct {
	ID           int64
	Kind         Kind
	NeedsNetwork bool
	Due          time.Time
	Payload      map[string]string
	Attempts     int
}

// Handler processes a fired Job. A non-nil return value means
// "retry me later".
type Handler func(j *Job) error

// Queue hands deferred Jobs to their Handlers once they are due and,
// where required, the network is available.
type Queue struct {
	log       *log.Logger
	lock      sync.Mutex
	active    bool
	pending   []*Job
	handlers  map[Kind]Handler
	counters  map[Kind]int64
	netCheck  func() bool
	redeliver time.Duration
}

// NewQueue creates a Queue. Handlers have to be registered before
// Start is called.
func NewQueue() (*Queue, error) {
	var (
		err error
		q   = &Queue{
			pending:   make([]*Job, 0, 16),
			handlers:  make(map[Kind]Handler),
			counters:  make(map[Kind]int64),
			netCheck:  func() bool { return true },
			redeliver: redeliveryDelay,
		}
	)

	if q.log, err = common.GetLogger(logdomain.JobQueue); err != nil {
		return nil, err
	}

	return q, nil
} // func NewQueue() (*Queue, error)

// RegisterHandler attaches a Handler to a job Kind.
func (q *Queue) RegisterHandler(k Kind, h Handler) {
	q.lock.Lock()
	q.handlers[k] = h
	q.lock.Unlock()
} // func (q *Queue) RegisterHandler(k Kind, h Handler)

// SetNetworkCheck replaces the readiness probe used for jobs that
// need network connectivity. The default probe always says yes.
func (q *Queue) SetNetworkCheck(probe func() bool) {
	q.lock.Lock()
	q.netCheck = probe
	q.lock.Unlock()
} // func (q *Queue) SetNetworkCheck(probe func() bool)

// SetRedeliveryDelay adjusts the wait before a failed job is retried.
// Passing zero or a negative value restores the default.
func (q *Queue) SetRedeliveryDelay(delay time.Duration) {
	if delay <= 0 {
		delay = redeliveryDelay
	}

	q.lock.Lock()
	q.redeliver = delay
	q.lock.Unlock()
} // func (q *Queue) SetRedeliveryDelay(delay time.Duration)

// Start sets the Queue going.
func (q *Queue) Start() {
	q.lock.Lock()
	q.active = true
	q.lock.Unlock()

	go q.dispatchLoop()
} // func (q *Queue) Start()

// IsActive returns true if the Queue's dispatch loop is running.
func (q *Queue) IsActive() bool {
	q.lock.Lock()
	var active = q.active
	q.lock.Unlock()

	return active
} // func (q *Queue) IsActive() bool

// Stop tells the dispatch loop to quit. Jobs still pending are kept
// but will not fire until Start is called again.
func (q *Queue) Stop() {
	q.lock.Lock()
	q.active = false
	q.lock.Unlock()
} // func (q *Queue) Stop()

// Enqueue schedules a Job of the given Kind and returns its ID.
// The Job fires no earlier than delay from now; if needsNetwork is
// true it additionally waits for the readiness probe.
func (q *Queue) Enqueue(k Kind, delay time.Duration, needsNetwork bool, payload map[string]string) int64 {
	q.lock.Lock()

	q.counters[k]++
	var j = &Job{
		ID:           int64(k)*kindRange + q.counters[k],
		Kind:         k,
		NeedsNetwork: needsNetwork,
		Due:          time.Now().Add(delay),
		Payload:      payload,
	}

	q.pending = append(q.pending, j)
	q.lock.Unlock()

	q.log.Printf("[DEBUG] Enqueued %s job %d, due %s\n",
		k,
		j.ID,
		j.Due.Format(common.TimestampFormat))

	return j.ID
} // func (q *Queue) Enqueue(k Kind, delay time.Duration, needsNetwork bool, payload map[string]string) int64

// PendingCount returns the number of jobs waiting to fire.
func (q *Queue) PendingCount() int {
	q.lock.Lock()
	var cnt = len(q.pending)
	q.lock.Unlock()

	return cnt
} // func (q *Queue) PendingCount() int

func (q *Queue) dispatchLoop() {
	defer q.log.Println("[TRACE] Dispatch loop is quitting")

	var tick = time.NewTicker(checkInterval)
	defer tick.Stop()

	for q.IsActive() {
		<-tick.C
		q.dispatchDue()
	}
} // func (q *Queue) dispatchLoop()

func (q *Queue) dispatchDue() {
	var (
		now = time.Now()
		due []*Job
	)

	q.lock.Lock()
	var netUp = q.netCheck()
	var keep = q.pending[:0]

	for _, j := range q.pending {
		if !j.Due.After(now) && (!j.NeedsNetwork || netUp) {
			due = append(due, j)
		} else {
			keep = append(keep, j)
		}
	}

	q.pending = keep
	q.lock.Unlock()

	for _, j := range due {
		go q.run(j)
	}
} // func (q *Queue) dispatchDue()

func (q *Queue) run(j *Job) {
	q.lock.Lock()
	var handler, ok = q.handlers[j.Kind]
	var redeliver = q.redeliver
	q.lock.Unlock()

	if !ok {
		q.log.Printf("[CANTHAPPEN] No handler registered for %s job %d, dropping it\n",
			j.Kind,
			j.ID)
		return
	}

	var err error

	if err = handler(j); err != nil {
		j.Attempts++
		j.Due = time.Now().Add(redeliver)

		q.log.Printf("[ERROR] %s job %d failed (attempt %d), redelivering at %s: %s\n",
			j.Kind,
			j.ID,
			j.Attempts,
			j.Due.Format(common.TimestampFormat),
			err.Error())

		q.lock.Lock()
		q.pending = append(q.pending, j)
		q.lock.Unlock()
		return
	}

	q.log.Printf("[TRACE] %s job %d finished\n",
		j.Kind,
		j.ID)
} // func (q *Queue) run(j *Job)

// Get returns a payload value, so handlers do not have to care whether
// a key was set at all.
func (j *Job) Get(key string) string {
	if j.Payload == nil {
		return ""
	}

	return j.Payload[key]
} // func (j *Job) Get(key string) string

func (j *Job) String() string {
	return fmt.Sprintf("Job{ ID: %d, Kind: %s, Due: %s, Attempts: %d }",
		j.ID,
		j.Kind,
		j.Due.Format(common.TimestampFormat),
		j.Attempts)
} // func (j *Job) String() string
