// /home/krylon/go/src/github.com/blicero/ariadne/jobq/01_jobq_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 26. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-13 17:20:12 krylon>

package jobq

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blicero/ariadne/common"
)

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/ariadne_jobq_test_20060102_150405")
	)

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)

func TestIDNamespaces(t *testing.T) {
	var (
		err error
		q   *Queue
	)

	if q, err = NewQueue(); err != nil {
		t.Fatalf("Cannot create Queue: %s", err.Error())
	}

	var (
		id1 = q.Enqueue(Display, time.Hour, false, nil)
		id2 = q.Enqueue(Display, time.Hour, false, nil)
		id3 = q.Enqueue(Webhook, time.Hour, true, nil)
	)

	if id2 != id1+1 {
		t.Errorf("Display job IDs should be consecutive: %d, then %d",
			id1,
			id2)
	}

	if id1/kindRange == id3/kindRange {
		t.Errorf("Display job %d and Webhook job %d share an ID range",
			id1,
			id3)
	}
} // func TestIDNamespaces(t *testing.T)

func TestDispatch(t *testing.T) {
	var (
		err error
		q   *Queue
		cnt int32
	)

	if q, err = NewQueue(); err != nil {
		t.Fatalf("Cannot create Queue: %s", err.Error())
	}

	q.RegisterHandler(Display, func(j *Job) error {
		atomic.AddInt32(&cnt, 1)
		return nil
	})

	q.Start()
	defer q.Stop()

	q.Enqueue(Display, 0, false, map[string]string{"id": "fence-001"})
	q.Enqueue(Display, time.Hour, false, nil)

	time.Sleep(checkInterval * 4)

	if n := atomic.LoadInt32(&cnt); n != 1 {
		t.Errorf("Expected 1 job to have fired, got %d", n)
	}

	if n := q.PendingCount(); n != 1 {
		t.Errorf("Expected 1 job to remain pending, got %d", n)
	}
} // func TestDispatch(t *testing.T)

func TestNetworkGate(t *testing.T) {
	var (
		err   error
		q     *Queue
		cnt   int32
		netUp int32
	)

	if q, err = NewQueue(); err != nil {
		t.Fatalf("Cannot create Queue: %s", err.Error())
	}

	q.SetNetworkCheck(func() bool { return atomic.LoadInt32(&netUp) != 0 })
	q.RegisterHandler(Webhook, func(j *Job) error {
		atomic.AddInt32(&cnt, 1)
		return nil
	})

	q.Start()
	defer q.Stop()

	q.Enqueue(Webhook, 0, true, nil)

	time.Sleep(checkInterval * 4)

	if n := atomic.LoadInt32(&cnt); n != 0 {
		t.Fatalf("Job fired %d time(s) although the network is down", n)
	}

	atomic.StoreInt32(&netUp, 1)
	time.Sleep(checkInterval * 4)

	if n := atomic.LoadInt32(&cnt); n != 1 {
		t.Errorf("Expected the job to fire once the network came up, got %d runs", n)
	}
} // func TestNetworkGate(t *testing.T)

func TestRedelivery(t *testing.T) {
	var (
		err error
		q   *Queue
		cnt int32
	)

	if q, err = NewQueue(); err != nil {
		t.Fatalf("Cannot create Queue: %s", err.Error())
	}

	q.redeliver = checkInterval

	q.RegisterHandler(Display, func(j *Job) error {
		if atomic.AddInt32(&cnt, 1) < 3 {
			return fmt.Errorf("transient failure #%d", cnt)
		}
		return nil
	})

	q.Start()
	defer q.Stop()

	q.Enqueue(Display, 0, false, nil)

	var deadline = time.Now().Add(time.Second * 5)

	for atomic.LoadInt32(&cnt) < 3 && time.Now().Before(deadline) {
		time.Sleep(checkInterval)
	}

	if n := atomic.LoadInt32(&cnt); n != 3 {
		t.Errorf("Expected the job to run 3 times, got %d", n)
	}
} // func TestRedelivery(t *testing.T)
