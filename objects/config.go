// /home/krylon/go/src/github.com/blicero/ariadne/objects/config.go
// -*- mode: go; coding: utf-8; -*-
// Created on 05. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-03-19 15:44:06 krylon>

package objects

import "time"

//go:generate ffjson config.go

// DefaultDelay is the delay before a display job fires, unless
// configured otherwise.
const DefaultDelay = 10

// Config holds the process-wide delivery settings: the minimum latency,
// in seconds, between a qualifying transition and the display of its
// notification.
type Config struct {
	Delay int `json:"delay"`
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() Config {
	return Config{Delay: DefaultDelay}
} // func DefaultConfig() Config

// DelayDuration returns the configured delay as a time.Duration.
func (c *Config) DelayDuration() time.Duration {
	return time.Second * time.Duration(c.Delay)
} // func (c *Config) DelayDuration() time.Duration
