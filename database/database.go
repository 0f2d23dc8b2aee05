// /home/krylon/go/src/github.com/blicero/ariadne/database/database.go
// -*- mode: go; coding: utf-8; -*-
// Created on 08. 03. 2023 by Benjamin Walkenhorst
// (c) 2023 Benjamin Walkenhorst
// Time-stamp: <2023-05-14 17:21:09 krylon>

// Package database persists the Regions we watch, the Notifications
// attached to them, the delivery configuration, and the single winner
// slot that marks which Region may currently display its Notification.
//
// It is built on SQLite, but the interface it presents to the rest of
// the application does not depend on that.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/blicero/ariadne/common"
	"github.com/blicero/ariadne/database/query"
	"github.com/blicero/ariadne/logdomain"
	"github.com/blicero/ariadne/objects"
	"github.com/blicero/ariadne/objects/transition"
	"github.com/blicero/krylib"
	"github.com/mattn/go-sqlite3"
	"github.com/pquerna/ffjson/ffjson"
)

var (
	openLock sync.Mutex
	idCnt    int64
)

// ErrTxInProgress indicates that an attempt was made to initiate a
// transaction while one was already in progress.
var ErrTxInProgress = fmt.Errorf("A Transaction is already in progress")

// ErrNoTxInProgress indicates that an attempt was made to finish a
// transaction while none was active.
var ErrNoTxInProgress = fmt.Errorf("There is no transaction in progress")

// If a query returns with a busy- or locked-error, we retry after this
// interval has passed.
const retryDelay = time.Millisecond * 25

func worthARetry(e error) bool {
	if dbErr, ok := e.(sqlite3.Error); ok {
		switch dbErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return true
		}
	}

	return false
} // func worthARetry(e error) bool

func waitForRetry() {
	time.Sleep(retryDelay)
} // func waitForRetry()

// Database wraps a connection to the underlying data store.
type Database struct {
	id      int64
	db      *sql.DB
	tx      *sql.Tx
	log     *log.Logger
	path    string
	queries map[query.ID]*sql.Stmt
}

// Open opens a Database. If the database file does not exist, it is
// created and the schema is initialized.
func Open(path string) (*Database, error) {
	var (
		err      error
		dbExists bool
		db       = &Database{
			path:    path,
			queries: make(map[query.ID]*sql.Stmt, len(dbQueries)),
		}
	)

	openLock.Lock()
	defer openLock.Unlock()
	idCnt++
	db.id = idCnt

	if db.log, err = common.GetLogger(logdomain.Database); err != nil {
		return nil, err
	}

	var connstring = fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=1",
		path)

	if dbExists, err = krylib.Fexists(path); err != nil {
		db.log.Printf("[ERROR] Failed to check if database file %s exists: %s\n",
			path,
			err.Error())
		return nil, err
	} else if db.db, err = sql.Open("sqlite3", connstring); err != nil {
		db.log.Printf("[ERROR] Failed to open %s: %s\n",
			path,
			err.Error())
		return nil, err
	}

	if !dbExists {
		if err = db.initialize(); err != nil {
			var e2 error
			if e2 = db.db.Close(); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to close database: %s\n",
					e2.Error())
				return nil, e2
			} else if e2 = os.Remove(path); e2 != nil {
				db.log.Printf("[CRITICAL] Failed to remove database file %s: %s\n",
					db.path,
					e2.Error())
			}
			return nil, err
		}
		db.log.Printf("[INFO] Database at %s has been initialized\n",
			path)
	}

	return db, nil
} // func Open(path string) (*Database, error)

func (db *Database) initialize() error {
	var err error
	var tx *sql.Tx

	if tx, err = db.db.Begin(); err != nil {
		db.log.Printf("[ERROR] Cannot begin transaction: %s\n",
			err.Error())
		return err
	}

	for _, q := range initQueries {
		db.log.Printf("[TRACE] Execute init query:\n%s\n",
			q)
		if _, err = tx.Exec(q); err != nil {
			db.log.Printf("[ERROR] Cannot execute init query: %s\n%s\n",
				err.Error(),
				q)
			if rbErr := tx.Rollback(); rbErr != nil {
				db.log.Printf("[CANTHAPPEN] Cannot rollback transaction: %s\n",
					rbErr.Error())
				return rbErr
			}
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		db.log.Printf("[CANTHAPPEN] Failed to commit init transaction: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) initialize() error

// Close closes the database.
// If there is a pending transaction, it is rolled back.
func (db *Database) Close() error {
	// I wonder if would make more since to panic() if something goes
	// wrong here.
	var err error

	if db.tx != nil {
		if err = db.tx.Rollback(); err != nil {
			db.log.Printf("[CRITICAL] Cannot roll back pending transaction: %s\n",
				err.Error())
			return err
		}
		db.tx = nil
	}

	for key, stmt := range db.queries {
		if err = stmt.Close(); err != nil {
			db.log.Printf("[CRITICAL] Cannot close statement handle %s: %s\n",
				key,
				err.Error())
			return err
		}
		delete(db.queries, key)
	}

	if err = db.db.Close(); err != nil {
		db.log.Printf("[CRITICAL] Cannot close database: %s\n",
			err.Error())
	}

	db.db = nil
	return nil
} // func (db *Database) Close() error

func (db *Database) getQuery(id query.ID) (*sql.Stmt, error) {
	var (
		stmt  *sql.Stmt
		found bool
		err   error
	)

	if stmt, found = db.queries[id]; found {
		return stmt, nil
	} else if _, found = dbQueries[id]; !found {
		return nil, fmt.Errorf("Unknown query %d", id)
	}

PREPARE_QUERY:
	if stmt, err = db.db.Prepare(dbQueries[id]); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto PREPARE_QUERY
		}

		db.log.Printf("[ERROR] Cannot parse query %s: %s\n%s\n",
			id,
			err.Error(),
			dbQueries[id])
		return nil, err
	}

	db.queries[id] = stmt
	return stmt, nil
} // func (db *Database) getQuery(query.ID) (*sql.Stmt, error)

// Begin begins an explicit database transaction.
// Only one transaction can be in progress at once, attempting to start
// one, while another transaction is already in progress will yield
// ErrTxInProgress.
func (db *Database) Begin() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Begin Transaction\n",
		db.id)

	if db.tx != nil {
		return ErrTxInProgress
	}

BEGIN_TX:
	for db.tx == nil {
		if db.tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				continue BEGIN_TX
			} else {
				db.log.Printf("[ERROR] Failed to start transaction: %s\n",
					err.Error())
				return err
			}
		}
	}

	return nil
} // func (db *Database) Begin() error

// Rollback terminates a pending transaction, undoing any changes to the
// database made during that transaction.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Rollback() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Roll back Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Rollback(); err != nil {
		return fmt.Errorf("Cannot roll back database transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Rollback() error

// Commit ends the active transaction, making any changes made during
// that transaction permanent and visible to other connections.
// If no transaction is active, it returns ErrNoTxInProgress
func (db *Database) Commit() error {
	var err error

	db.log.Printf("[DEBUG] Database#%d Commit Transaction\n",
		db.id)

	if db.tx == nil {
		return ErrNoTxInProgress
	} else if err = db.tx.Commit(); err != nil {
		return fmt.Errorf("Cannot commit transaction: %s",
			err.Error())
	}

	db.tx = nil
	return nil
} // func (db *Database) Commit() error

// RegionPut saves a Region to the database, overwriting any prior
// version stored under the same ID. The embedded Notification is
// stored, updated, or removed along with it.
func (db *Database) RegionPut(r *objects.Region) error {
	const qid query.ID = query.RegionPut
	var (
		err    error
		stmt   *sql.Stmt
		tx     *sql.Tx
		status bool
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		tx = db.tx
	} else {
	BEGIN_AD_HOC:
		if tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				goto BEGIN_AD_HOC
			} else {
				db.log.Printf("[ERROR] Failed to start ad-hoc transaction: %s\n",
					err.Error())
				return err
			}
		}

		defer func() {
			var txErr error
			if status {
				if txErr = tx.Commit(); txErr != nil {
					db.log.Printf("[ERROR] Failed to commit ad-hoc transaction: %s\n",
						txErr.Error())
				}
			} else if txErr = tx.Rollback(); txErr != nil {
				db.log.Printf("[ERROR] Rollback of ad-hoc transaction failed: %s\n",
					txErr.Error())
			}
		}()
	}

	stmt = tx.Stmt(stmt)

EXEC_QUERY:
	if _, err = stmt.Exec(
		r.ID,
		r.Name,
		r.Latitude,
		r.Longitude,
		r.Radius,
		int(r.TransitionType),
		r.LoiteringDelay,
		r.StartTime,
		r.EndTime,
		r.URL,
		r.Authorization); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot save Region %s to database: %s\n",
			r.ID,
			err.Error())
		return err
	}

	if err = db.notificationPut(tx, r); err != nil {
		return err
	}

	status = true
	return nil
} // func (db *Database) RegionPut(r *objects.Region) error

func (db *Database) notificationPut(tx *sql.Tx, r *objects.Region) error {
	var (
		err  error
		stmt *sql.Stmt
	)

	if r.Notification == nil {
		if stmt, err = db.getQuery(query.NotificationDelete); err != nil {
			return err
		}

		stmt = tx.Stmt(stmt)

	EXEC_DELETE:
		if _, err = stmt.Exec(r.ID); err != nil {
			if worthARetry(err) {
				waitForRetry()
				goto EXEC_DELETE
			}

			db.log.Printf("[ERROR] Cannot remove Notification of Region %s: %s\n",
				r.ID,
				err.Error())
			return err
		}

		return nil
	}

	var (
		n         = r.Notification
		vibration []byte
		triggered int64
	)

	if len(n.Vibration) > 0 {
		if vibration, err = ffjson.Marshal(n.Vibration); err != nil {
			db.log.Printf("[ERROR] Cannot serialize vibration pattern of Notification %d: %s\n",
				n.ID,
				err.Error())
			return err
		}
		defer ffjson.Pool(vibration)
	}

	if !n.LastTriggered.IsZero() {
		triggered = n.LastTriggered.UnixMilli()
	}

	if stmt, err = db.getQuery(query.NotificationPut); err != nil {
		return err
	}

	stmt = tx.Stmt(stmt)

EXEC_PUT:
	if _, err = stmt.Exec(
		r.ID,
		n.ID,
		n.Title,
		n.Text,
		n.SmallIcon,
		n.Icon,
		n.OpenAppOnClick,
		string(vibration),
		string(n.Data),
		triggered); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_PUT
		}

		db.log.Printf("[ERROR] Cannot save Notification of Region %s: %s\n",
			r.ID,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) notificationPut(tx *sql.Tx, r *objects.Region) error

// RegionGet loads a single Region by its ID. It returns nil (and no
// error) if no Region is stored under that ID.
func (db *Database) RegionGet(id string) (*objects.Region, error) {
	const qid query.ID = query.RegionGet
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(id); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query Region %s: %s\n",
			id,
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	if !rows.Next() {
		return nil, nil
	}

	var (
		winner     string
		r          = &objects.Region{ID: id}
		ttype      int64
		nid        sql.NullInt64
		ntitle     sql.NullString
		ntext      sql.NullString
		nsmall     sql.NullString
		nicon      sql.NullString
		nopen      sql.NullBool
		nvibration sql.NullString
		ndata      sql.NullString
		ntriggered sql.NullInt64
	)

	if err = rows.Scan(
		&r.Name,
		&r.Latitude,
		&r.Longitude,
		&r.Radius,
		&ttype,
		&r.LoiteringDelay,
		&r.StartTime,
		&r.EndTime,
		&r.URL,
		&r.Authorization,
		&nid,
		&ntitle,
		&ntext,
		&nsmall,
		&nicon,
		&nopen,
		&nvibration,
		&ndata,
		&ntriggered); err != nil {
		db.log.Printf("[ERROR] Cannot scan row for Region %s: %s\n",
			id,
			err.Error())
		return nil, err
	}

	r.TransitionType = transition.Type(ttype)

	if nid.Valid {
		if r.Notification, err = assembleNotification(nid, ntitle, ntext, nsmall, nicon, nopen, nvibration, ndata, ntriggered); err != nil {
			db.log.Printf("[ERROR] Cannot assemble Notification of Region %s: %s\n",
				id,
				err.Error())
			return nil, err
		}
	}

	if winner, err = db.WinnerGet(); err != nil {
		return nil, err
	}

	r.IsLast = winner != "" && winner == r.ID

	return r, nil
} // func (db *Database) RegionGet(id string) (*objects.Region, error)

// RegionGetAll loads all Regions from the database.
// The embedded Notifications come along, the IsLast flag is filled in
// from the winner slot.
func (db *Database) RegionGetAll() ([]objects.Region, error) {
	const qid query.ID = query.RegionGetAll
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return nil, err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query all Regions: %s\n",
			err.Error())
		return nil, err
	}

	defer rows.Close() // nolint: errcheck

	var (
		winner  string
		regions = make([]objects.Region, 0, 8)
	)

	if winner, err = db.WinnerGet(); err != nil {
		return nil, err
	}

	for rows.Next() {
		var (
			r          objects.Region
			ttype      int64
			nid        sql.NullInt64
			ntitle     sql.NullString
			ntext      sql.NullString
			nsmall     sql.NullString
			nicon      sql.NullString
			nopen      sql.NullBool
			nvibration sql.NullString
			ndata      sql.NullString
			ntriggered sql.NullInt64
		)

		if err = rows.Scan(
			&r.ID,
			&r.Name,
			&r.Latitude,
			&r.Longitude,
			&r.Radius,
			&ttype,
			&r.LoiteringDelay,
			&r.StartTime,
			&r.EndTime,
			&r.URL,
			&r.Authorization,
			&nid,
			&ntitle,
			&ntext,
			&nsmall,
			&nicon,
			&nopen,
			&nvibration,
			&ndata,
			&ntriggered); err != nil {
			db.log.Printf("[ERROR] Cannot scan row: %s\n",
				err.Error())
			return nil, err
		}

		r.TransitionType = transition.Type(ttype)

		if nid.Valid {
			if r.Notification, err = assembleNotification(nid, ntitle, ntext, nsmall, nicon, nopen, nvibration, ndata, ntriggered); err != nil {
				db.log.Printf("[ERROR] Cannot assemble Notification of Region %s: %s\n",
					r.ID,
					err.Error())
				return nil, err
			}
		}

		r.IsLast = winner != "" && winner == r.ID
		regions = append(regions, r)
	}

	return regions, nil
} // func (db *Database) RegionGetAll() ([]objects.Region, error)

func assembleNotification(
	id sql.NullInt64,
	title, text, smallIcon, icon sql.NullString,
	openApp sql.NullBool,
	vibration, data sql.NullString,
	triggered sql.NullInt64) (*objects.Notification, error) {
	var (
		err error
		n   = &objects.Notification{
			ID:             id.Int64,
			Title:          title.String,
			Text:           text.String,
			SmallIcon:      smallIcon.String,
			Icon:           icon.String,
			OpenAppOnClick: openApp.Bool,
		}
	)

	if vibration.String != "" {
		if err = ffjson.Unmarshal([]byte(vibration.String), &n.Vibration); err != nil {
			return nil, err
		}
	}

	if data.String != "" {
		n.Data = json.RawMessage(data.String)
	}

	if triggered.Int64 != 0 {
		n.LastTriggered = time.UnixMilli(triggered.Int64).In(time.UTC)
	}

	return n, nil
} // func assembleNotification(...) (*objects.Notification, error)

// RegionDelete removes the Regions with the given IDs from the
// database, along with their Notifications. IDs that do not exist are
// silently skipped.
func (db *Database) RegionDelete(ids ...string) error {
	const qid query.ID = query.RegionDelete
	var (
		err    error
		stmt   *sql.Stmt
		tx     *sql.Tx
		status bool
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		tx = db.tx
	} else {
	BEGIN_AD_HOC:
		if tx, err = db.db.Begin(); err != nil {
			if worthARetry(err) {
				waitForRetry()
				goto BEGIN_AD_HOC
			} else {
				db.log.Printf("[ERROR] Failed to start ad-hoc transaction: %s\n",
					err.Error())
				return err
			}
		}

		defer func() {
			var txErr error
			if status {
				if txErr = tx.Commit(); txErr != nil {
					db.log.Printf("[ERROR] Failed to commit ad-hoc transaction: %s\n",
						txErr.Error())
				}
			} else if txErr = tx.Rollback(); txErr != nil {
				db.log.Printf("[ERROR] Rollback of ad-hoc transaction failed: %s\n",
					txErr.Error())
			}
		}()
	}

	stmt = tx.Stmt(stmt)

	for _, id := range ids {
	EXEC_QUERY:
		if _, err = stmt.Exec(id); err != nil {
			if worthARetry(err) {
				waitForRetry()
				goto EXEC_QUERY
			}

			db.log.Printf("[ERROR] Cannot delete Region %s: %s\n",
				id,
				err.Error())
			return err
		}
	}

	status = true
	return nil
} // func (db *Database) RegionDelete(ids ...string) error

// RegionDeleteAll removes all Regions from the database.
func (db *Database) RegionDeleteAll() error {
	const qid query.ID = query.RegionDeleteAll
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot delete all Regions: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) RegionDeleteAll() error

// NotificationSetLastTriggered records the time the Region's
// Notification was last displayed.
func (db *Database) NotificationSetLastTriggered(r *objects.Region, stamp time.Time) error {
	const qid query.ID = query.NotificationSetLastTriggered
	var (
		err  error
		stmt *sql.Stmt
	)

	if r.Notification == nil {
		return fmt.Errorf("Region %s has no Notification", r.ID)
	} else if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(stamp.UnixMilli(), r.ID); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot update last_triggered on Notification of Region %s: %s\n",
			r.ID,
			err.Error())
		return err
	}

	r.Notification.LastTriggered = stamp.In(time.UTC)
	return nil
} // func (db *Database) NotificationSetLastTriggered(r *objects.Region, stamp time.Time) error

// ConfigGet loads the delivery configuration.
func (db *Database) ConfigGet() (objects.Config, error) {
	const qid query.ID = query.ConfigGet
	var (
		err  error
		stmt *sql.Stmt
		cfg  = objects.DefaultConfig()
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return cfg, err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query config: %s\n",
			err.Error())
		return cfg, err
	}

	defer rows.Close() // nolint: errcheck

	if rows.Next() {
		if err = rows.Scan(&cfg.Delay); err != nil {
			db.log.Printf("[ERROR] Cannot scan config row: %s\n",
				err.Error())
			return cfg, err
		}
	}

	return cfg, nil
} // func (db *Database) ConfigGet() (objects.Config, error)

// ConfigSet stores the delivery configuration.
func (db *Database) ConfigSet(cfg objects.Config) error {
	const qid query.ID = query.ConfigSet
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(cfg.Delay); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot store config: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) ConfigSet(cfg objects.Config) error

// WinnerGet returns the ID of the Region currently authorized to
// display its Notification, or the empty string if there is none.
func (db *Database) WinnerGet() (string, error) {
	const qid query.ID = query.WinnerGet
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return "", err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

	var rows *sql.Rows

EXEC_QUERY:
	if rows, err = stmt.Query(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot query winner slot: %s\n",
			err.Error())
		return "", err
	}

	defer rows.Close() // nolint: errcheck

	var winner string

	if rows.Next() {
		if err = rows.Scan(&winner); err != nil {
			db.log.Printf("[ERROR] Cannot scan winner row: %s\n",
				err.Error())
			return "", err
		}
	}

	return winner, nil
} // func (db *Database) WinnerGet() (string, error)

// WinnerSet marks the Region with the given ID as the one whose
// Notification may display. It replaces any previous winner, the slot
// holds at most one ID.
func (db *Database) WinnerSet(id string) error {
	const qid query.ID = query.WinnerSet
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(id); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot set winner slot to %s: %s\n",
			id,
			err.Error())
		return err
	}

	return nil
} // func (db *Database) WinnerSet(id string) error

// WinnerClear empties the winner slot.
func (db *Database) WinnerClear() error {
	const qid query.ID = query.WinnerClear
	var (
		err  error
		stmt *sql.Stmt
	)

	if stmt, err = db.getQuery(qid); err != nil {
		db.log.Printf("[ERROR] Cannot prepare query %s: %s\n",
			qid,
			err.Error())
		return err
	}

	if db.tx != nil {
		stmt = db.tx.Stmt(stmt)
	}

EXEC_QUERY:
	if _, err = stmt.Exec(); err != nil {
		if worthARetry(err) {
			waitForRetry()
			goto EXEC_QUERY
		}

		db.log.Printf("[ERROR] Cannot clear winner slot: %s\n",
			err.Error())
		return err
	}

	return nil
} // func (db *Database) WinnerClear() error
