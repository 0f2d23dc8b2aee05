// /home/krylon/go/src/github.com/blicero/ariadne/backend/00_backend_main_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 17. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-18 17:29:52 krylon>

package backend

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/objects"
)

// recorder is a Notifier that displays nothing and remembers
// everything.
type recorder struct {
	lock      sync.Mutex
	shown     []string
	dismissed []int64
}

func (r *recorder) Notify(n *objects.Notification, transition string) error {
	r.lock.Lock()
	r.shown = append(r.shown, n.Title)
	r.lock.Unlock()
	return nil
} // func (r *recorder) Notify(n *objects.Notification, transition string) error

func (r *recorder) Dismiss(ids []int64) error {
	r.lock.Lock()
	r.dismissed = append(r.dismissed, ids...)
	r.lock.Unlock()
	return nil
} // func (r *recorder) Dismiss(ids []int64) error

func (r *recorder) shownCnt() int {
	r.lock.Lock()
	var cnt = len(r.shown)
	r.lock.Unlock()
	return cnt
} // func (r *recorder) shownCnt() int

// waitFor polls the given condition for up to three seconds, which is
// plenty for the job queue's dispatch interval.
func waitFor(cond func() bool) bool {
	var deadline = time.Now().Add(time.Second * 3)

	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond * 25)
	}

	return cond()
} // func waitFor(cond func() bool) bool

func TestMain(m *testing.M) {
	var (
		err     error
		result  int
		baseDir = time.Now().Format("/tmp/ariadne_backend_test_20060102_150405")
	)

	if err = common.SetBaseDir(baseDir); err != nil {
		fmt.Printf("Cannot set base directory to %s: %s\n",
			baseDir,
			err.Error())
		os.Exit(1)
	} else if result = m.Run(); result == 0 {
		// If any test failed, we keep the test directory (and the
		// database inside it) around, so we can manually inspect it
		// if needed.
		// If all tests pass, OTOH, we can safely remove the directory.
		fmt.Printf("Removing BaseDir %s\n",
			baseDir)
		_ = os.RemoveAll(baseDir)
	} else {
		fmt.Printf(">>> TEST DIRECTORY: %s\n", baseDir)
	}

	os.Exit(result)
} // func TestMain(m *testing.M)
