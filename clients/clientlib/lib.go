// /home/krylon/go/src/github.com/blicero/ariadne/clients/clientlib/lib.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-20 19:55:41 krylon>

// Package clientlib provides the basic framework for building clients
// that talk to the backend: registering Regions, feeding it transition
// events, and polling for the events it wants to hand back.
package clientlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/pquerna/ffjson/ffjson"
)

const (
	initPath      = "/init"
	addPath       = "/fence/add"
	allPath       = "/fence/all"
	removeAllPath = "/fence/removeall"
	eventPath     = "/event"
	pendingPath   = "/event/pending"
)

// Client implements the fundamental communication with the backend.
type Client struct {
	Server *url.URL
	Client http.Client
	log    *log.Logger
}

// NewClient creates a new Client.
func NewClient(srv string) (*Client, error) {
	var (
		err error
		c   = &Client{
			Client: http.Client{
				Timeout: time.Second * 10,
			},
		}
	)

	if c.log, err = common.GetLogger(logdomain.Client); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Logger: %s\n",
			err.Error())
		return nil, err
	} else if c.Server, err = url.Parse(srv); err != nil {
		c.log.Printf("[ERROR] Cannot parse URL %q: %s\n",
			srv,
			err.Error())
		return nil, err
	}

	c.Server.Scheme = "http"

	return c, nil
} // func NewClient(srv string) (*Client, error)

func (c *Client) GetLogger() *log.Logger {
	return c.log
} // func (c *Client) GetLogger() *log.Logger

func (c *Client) endpoint(path string) string {
	var u = *c.Server
	u.Path = path
	return u.String()
} // func (c *Client) endpoint(path string) string

// readResponse consumes an HTTP response carrying the backend's
// standard acknowledgement and turns a negative one into an error.
func (c *Client) readResponse(hres *http.Response) error {
	var (
		err    error
		msg    string
		rcvBuf bytes.Buffer
		ores   objects.Response
	)

	defer hres.Body.Close() // nolint: errcheck

	if hres.StatusCode != http.StatusOK {
		msg = fmt.Sprintf("Unexpected status from %s: %s",
			hres.Request.URL,
			hres.Status)
		c.log.Printf("[ERROR] %s\n", msg)
		return errors.New(msg)
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Response body: %s\n",
			err.Error())
		return err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &ores); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Response: %s\n",
			err.Error())
		return err
	} else if !ores.Status {
		err = fmt.Errorf("Request to %s failed: %s",
			hres.Request.URL,
			ores.Message)
		c.log.Printf("[ERROR] %s\n",
			err.Error())
		return err
	}

	c.log.Printf("[DEBUG] Request to %s was successful: %s\n",
		hres.Request.URL,
		ores.Message)

	return nil
} // func (c *Client) readResponse(hres *http.Response) error

// Init performs the startup handshake with the backend, optionally
// setting the delivery delay (in seconds). A negative delay leaves
// the stored value untouched.
func (c *Client) Init(delay int) error {
	var values = make(url.Values)

	if delay >= 0 {
		values["delay"] = []string{strconv.Itoa(delay)}
	}

	var hres, err = c.Client.PostForm(c.endpoint(initPath), values)
	if err != nil {
		c.log.Printf("[ERROR] Handshake with %s failed: %s\n",
			c.Server.Host,
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) Init(delay int) error

// AddRegions registers the given Regions with the backend, replacing
// any that already exist under the same IDs.
func (c *Client) AddRegions(regions []objects.Region) error {
	var (
		err     error
		sendBuf []byte
		hres    *http.Response
	)

	if sendBuf, err = ffjson.Marshal(regions); err != nil {
		c.log.Printf("[ERROR] Cannot serialize Region list: %s\n",
			err.Error())
		return err
	}

	defer ffjson.Pool(sendBuf)

	if hres, err = c.Client.Post(c.endpoint(addPath), "application/json", bytes.NewReader(sendBuf)); err != nil {
		c.log.Printf("[ERROR] Failed to POST Regions to %s: %s\n",
			c.Server.Host,
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) AddRegions(regions []objects.Region) error

// GetWatched fetches all Regions the backend is watching.
func (c *Client) GetWatched() ([]objects.Region, error) {
	var (
		err     error
		hres    *http.Response
		rcvBuf  bytes.Buffer
		regions []objects.Region
	)

	if hres, err = c.Client.Get(c.endpoint(allPath)); err != nil {
		c.log.Printf("[ERROR] Failed to fetch Regions from %s: %s\n",
			c.Server.Host,
			err.Error())
		return nil, err
	}

	defer hres.Body.Close() // nolint: errcheck

	if hres.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status from %s: %s",
			c.Server.Host,
			hres.Status)
		c.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read Region list: %s\n",
			err.Error())
		return nil, err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &regions); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize Region list: %s\n",
			err.Error())
		return nil, err
	}

	return regions, nil
} // func (c *Client) GetWatched() ([]objects.Region, error)

// RemoveRegion asks the backend to stop watching the given Region.
func (c *Client) RemoveRegion(id string) error {
	var hres, err = c.Client.PostForm(c.endpoint("/fence/"+id+"/remove"), nil)
	if err != nil {
		c.log.Printf("[ERROR] Failed to remove Region %s: %s\n",
			id,
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) RemoveRegion(id string) error

// RemoveAll asks the backend to stop watching all Regions.
func (c *Client) RemoveAll() error {
	var hres, err = c.Client.PostForm(c.endpoint(removeAllPath), nil)
	if err != nil {
		c.log.Printf("[ERROR] Failed to remove Regions: %s\n",
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) RemoveAll() error

// Snooze mutes the given Region for a number of seconds.
func (c *Client) Snooze(id string, seconds int64) error {
	var values = url.Values{
		"duration": []string{strconv.FormatInt(seconds, 10)},
	}

	var hres, err = c.Client.PostForm(c.endpoint("/fence/"+id+"/snooze"), values)
	if err != nil {
		c.log.Printf("[ERROR] Failed to snooze Region %s: %s\n",
			id,
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) Snooze(id string, seconds int64) error

// SubmitEvent feeds a transition event into the backend's pipeline.
func (c *Client) SubmitEvent(ev *objects.TransitionEvent) error {
	var (
		err     error
		sendBuf []byte
		hres    *http.Response
	)

	if sendBuf, err = ffjson.Marshal(ev); err != nil {
		c.log.Printf("[ERROR] Cannot serialize transition event: %s\n",
			err.Error())
		return err
	}

	defer ffjson.Pool(sendBuf)

	if hres, err = c.Client.Post(c.endpoint(eventPath), "application/json", bytes.NewReader(sendBuf)); err != nil {
		c.log.Printf("[ERROR] Failed to POST transition event to %s: %s\n",
			c.Server.Host,
			err.Error())
		return err
	}

	return c.readResponse(hres)
} // func (c *Client) SubmitEvent(ev *objects.TransitionEvent) error

// PollEvents drains the backend's outbound event buffer.
func (c *Client) PollEvents() ([]objects.BridgeEvent, error) {
	var (
		err    error
		hres   *http.Response
		rcvBuf bytes.Buffer
		events []objects.BridgeEvent
	)

	if hres, err = c.Client.Get(c.endpoint(pendingPath)); err != nil {
		c.log.Printf("[ERROR] Failed to poll events from %s: %s\n",
			c.Server.Host,
			err.Error())
		return nil, err
	}

	defer hres.Body.Close() // nolint: errcheck

	if hres.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status from %s: %s",
			c.Server.Host,
			hres.Status)
		c.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if _, err = io.Copy(&rcvBuf, hres.Body); err != nil {
		c.log.Printf("[ERROR] Failed to read event list: %s\n",
			err.Error())
		return nil, err
	} else if err = ffjson.Unmarshal(rcvBuf.Bytes(), &events); err != nil {
		c.log.Printf("[ERROR] Cannot de-serialize event list: %s\n",
			err.Error())
		return nil, err
	}

	return events, nil
} // func (c *Client) PollEvents() ([]objects.BridgeEvent, error)
