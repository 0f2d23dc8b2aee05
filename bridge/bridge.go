// /home/krylon/go/src/github.com/blicero/ariadne/bridge/bridge.go
// -*- mode: go; coding: utf-8; -*-
// Created on 24. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-13 18:49:31 krylon>

// Package bridge forwards what happens inside the backend to the web
// frontend: batches of Regions that fired, errors worth reporting,
// notification click-throughs.
//
// The frontend is not necessarily listening when an event occurs, so
// the default implementation buffers events in memory and hands them
// out when the frontend asks.
package bridge

import (
	"log"
	"sync"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
)

// Bridge is the handle the backend uses to talk to the frontend.
type Bridge interface {
	TransitionReceived(regions []objects.Region) error
	EventError(msg string) error
	NotificationClicked(data string) error
}

// Size of the event buffer. When it is full, the oldest events are
// dropped first.
const bufferSize = 64

// Buffer is a Bridge that queues events in memory until the frontend
// polls for them.
type Buffer struct {
	log    *log.Logger
	lock   sync.Mutex
	events []objects.BridgeEvent
}

// NewBuffer creates a Buffer.
func NewBuffer() (*Buffer, error) {
	var (
		err error
		b   = &Buffer{
			events: make([]objects.BridgeEvent, 0, bufferSize),
		}
	)

	if b.log, err = common.GetLogger(logdomain.Bridge); err != nil {
		return nil, err
	}

	return b, nil
} // func NewBuffer() (*Buffer, error)

func (b *Buffer) push(ev objects.BridgeEvent) {
	b.lock.Lock()
	if len(b.events) >= bufferSize {
		var cnt = copy(b.events, b.events[1:])
		b.events = b.events[:cnt]
	}
	b.events = append(b.events, ev)
	b.lock.Unlock()
} // func (b *Buffer) push(ev objects.BridgeEvent)

// TransitionReceived queues a batch of Regions, in trigger order, for
// the frontend.
func (b *Buffer) TransitionReceived(regions []objects.Region) error {
	b.log.Printf("[DEBUG] Transition event received, %d Region(s)\n",
		len(regions))

	b.push(objects.BridgeEvent{
		Kind:      objects.BridgeTransition,
		Regions:   regions,
		Timestamp: time.Now(),
	})

	return nil
} // func (b *Buffer) TransitionReceived(regions []objects.Region) error

// EventError queues an error report for the frontend.
func (b *Buffer) EventError(msg string) error {
	b.log.Printf("[DEBUG] Forwarding error to frontend: %s\n",
		msg)

	b.push(objects.BridgeEvent{
		Kind:      objects.BridgeError,
		Error:     msg,
		Timestamp: time.Now(),
	})

	return nil
} // func (b *Buffer) EventError(msg string) error

// NotificationClicked queues the opaque click payload of a
// Notification the user interacted with.
func (b *Buffer) NotificationClicked(data string) error {
	b.push(objects.BridgeEvent{
		Kind:      objects.BridgeClick,
		Data:      data,
		Timestamp: time.Now(),
	})

	return nil
} // func (b *Buffer) NotificationClicked(data string) error

// Drain returns all queued events in order and empties the Buffer.
func (b *Buffer) Drain() []objects.BridgeEvent {
	b.lock.Lock()
	var events = b.events
	b.events = make([]objects.BridgeEvent, 0, bufferSize)
	b.lock.Unlock()

	return events
} // func (b *Buffer) Drain() []objects.BridgeEvent
