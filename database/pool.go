// /home/krylon/go/src/github.com/blicero/ariadne/database/pool.go
// -*- mode: go; coding: utf-8; -*-
// Created on 09. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-04-16 15:38:52 krylon>

package database

import (
	"log"
	"sync"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/logdomain"
)

// Pool is a pool of database connections, so the various worker
// goroutines do not have to share a single connection.
type Pool struct {
	lock    sync.Mutex
	cond    *sync.Cond
	log     *log.Logger
	clients []*Database
}

// NewPool opens the given number of database connections and returns
// the Pool containing them.
func NewPool(cnt int) (*Pool, error) {
	var (
		err  error
		pool = &Pool{
			clients: make([]*Database, 0, cnt),
		}
	)

	pool.cond = sync.NewCond(&pool.lock)

	if pool.log, err = common.GetLogger(logdomain.DBPool); err != nil {
		return nil, err
	}

	for i := 0; i < cnt; i++ {
		var db *Database

		if db, err = Open(common.DbPath); err != nil {
			pool.log.Printf("[ERROR] Cannot open database at %s: %s\n",
				common.DbPath,
				err.Error())
			pool.Close() // nolint: errcheck
			return nil, err
		}

		pool.clients = append(pool.clients, db)
	}

	return pool, nil
} // func NewPool(cnt int) (*Pool, error)

// Get returns a connection from the Pool, blocking until one is
// available if the Pool is currently empty.
func (p *Pool) Get() *Database {
	p.lock.Lock()
	defer p.lock.Unlock()

	for len(p.clients) == 0 {
		p.cond.Wait()
	}

	var db = p.clients[len(p.clients)-1]
	p.clients = p.clients[:len(p.clients)-1]

	return db
} // func (p *Pool) Get() *Database

// GetNoWait returns a connection from the pool, or nil if none is
// available right now.
func (p *Pool) GetNoWait() *Database {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(p.clients) == 0 {
		return nil
	}

	var db = p.clients[len(p.clients)-1]
	p.clients = p.clients[:len(p.clients)-1]

	return db
} // func (p *Pool) GetNoWait() *Database

// Put returns a connection to the Pool.
func (p *Pool) Put(db *Database) {
	p.lock.Lock()
	p.clients = append(p.clients, db)
	p.cond.Signal()
	p.lock.Unlock()
} // func (p *Pool) Put(db *Database)

// Close closes all connections currently in the Pool.
func (p *Pool) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	var err error

	for _, db := range p.clients {
		if e := db.Close(); e != nil {
			p.log.Printf("[ERROR] Cannot close database connection: %s\n",
				e.Error())
			err = e
		}
	}

	p.clients = p.clients[:0]
	return err
} // func (p *Pool) Close() error
