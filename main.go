// /home/krylon/go/src/github.com/blicero/ariadne/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 12. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-20 18:40:12 krylon>

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blicero/ariadne/backend"
	"github.com/blicero/ariadne/bridge"
	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/notify"
)

func main() {
	fmt.Printf("%s %s\n",
		common.AppName,
		common.Version)

	var (
		err          error
		daemon       *backend.Daemon
		nf           *notify.DBusNotifier
		buf          *bridge.Buffer
		appDir, addr string
	)

	flag.StringVar(
		&appDir,
		"appdir",
		common.BaseDir,
		"The directory where application-specific files live")

	flag.StringVar(
		&addr,
		"address",
		fmt.Sprintf("localhost:%d", common.DefaultPort),
		"Address for the backend to listen on",
	)

	flag.Parse()

	if appDir != common.BaseDir {
		if err = common.SetBaseDir(appDir); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Cannot set application directory to %s: %s\n",
				appDir,
				err.Error())
			os.Exit(1)
		}
	} else if err = common.InitApp(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot initialize application directory %s: %s\n",
			common.BaseDir,
			err.Error())
		os.Exit(1)
	}

	if nf, err = notify.NewDBusNotifier(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot connect to the desktop notification service: %s\n",
			err.Error())
		os.Exit(1)
	} else if buf, err = bridge.NewBuffer(); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create the frontend event buffer: %s\n",
			err.Error())
		os.Exit(1)
	} else if daemon, err = backend.Summon(addr, nf, buf); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to initialize backend: %s\n",
			err.Error())
		os.Exit(1)
	}

	var sigQ = make(chan os.Signal, 1)
	var ticker = time.NewTicker(time.Second * 2)

	signal.Notify(sigQ, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	for daemon.IsAlive() {
		select {
		case sig := <-sigQ:
			fmt.Printf("Quitting on signal %s\n", sig)
			daemon.Banish() // nolint: errcheck
			os.Exit(0)
		case <-ticker.C:
			continue
		}
	}
}
