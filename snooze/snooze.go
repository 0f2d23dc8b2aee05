// /home/krylon/go/src/github.com/blicero/ariadne/snooze/snooze.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-08 11:21:54 krylon>

// Package snooze implements a temporary, time-bounded suppression of
// individual Regions, keyed by Region ID. Snoozes live for the lifetime
// of the process only, they are not persisted.
package snooze

import (
	"sync"
	"time"
)

// Registry maps Region IDs to the point in time their snooze expires.
// Expired entries are left in place, lookup re-checks the expiry every
// time.
type Registry struct {
	lock   sync.RWMutex
	fences map[string]int64 // expiry, milliseconds since epoch
}

// NewRegistry creates a fresh Registry.
func NewRegistry() *Registry {
	return &Registry{
		fences: make(map[string]int64),
	}
} // func NewRegistry() *Registry

// Snooze suppresses the given Region for ttl seconds from now.
func (r *Registry) Snooze(id string, ttl int64) {
	r.lock.Lock()
	r.fences[id] = time.Now().UnixMilli() + ttl*1000
	r.lock.Unlock()
} // func (r *Registry) Snooze(id string, ttl int64)

// IsSnoozed returns true if the given Region is currently suppressed.
func (r *Registry) IsSnoozed(id string) bool {
	r.lock.RLock()
	var expiry, ok = r.fences[id]
	r.lock.RUnlock()

	return ok && time.Now().UnixMilli() < expiry
} // func (r *Registry) IsSnoozed(id string) bool
