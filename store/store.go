// Package store records migration runs in a SQL database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	dipole "github.com/funkymunkycool/classical-dipoles"
)

const (
	TblRuns      = "runs"
	TblFrames    = "frames"
	TblParticles = "particles"
)

var NoRunErr = errors.New("no such run")

var schema = []string{
	"CREATE TABLE IF NOT EXISTS " + TblRuns + " (run TEXT PRIMARY KEY,created TEXT,nframes INTEGER,nparticles INTEGER,steepness REAL,origin INTEGER,dest INTEGER,refx REAL,refy REAL);",
	"CREATE TABLE IF NOT EXISTS " + TblFrames + " (run TEXT,frame INTEGER,t REAL,dx REAL,dy REAL,magnitude REAL);",
	"CREATE TABLE IF NOT EXISTS " + TblParticles + " (run TEXT,frame INTEGER,particle INTEGER,species TEXT,charge REAL,weight REAL,x REAL,y REAL,px REAL,py REAL);",
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path.  Use
// ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	s, err := New(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the tables if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores tr as a new run and returns the run id.  All rows of a run
// are written in a single transaction.
func (s *Store) Record(ctx context.Context, tr *dipole.Trajectory) (run string, err error) {
	run = uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	nparticles := 0
	if tr.Len() > 0 {
		nparticles = len(tr.Frames[0].Config)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO "+TblRuns+" (run,created,nframes,nparticles,steepness,origin,dest,refx,refy) VALUES (?,?,?,?,?,?,?,?,?);",
		run, time.Now().UTC().Format(time.RFC3339), tr.Len(), nparticles, tr.Steepness,
		tr.Pair.Origin, tr.Pair.Dest, tr.Reference.X, tr.Reference.Y,
	)
	if err != nil {
		return "", err
	}

	fstmt, err := tx.PrepareContext(ctx, "INSERT INTO "+TblFrames+" (run,frame,t,dx,dy,magnitude) VALUES (?,?,?,?,?,?);")
	if err != nil {
		return "", err
	}
	defer fstmt.Close()

	pstmt, err := tx.PrepareContext(ctx, "INSERT INTO "+TblParticles+" (run,frame,particle,species,charge,weight,x,y,px,py) VALUES (?,?,?,?,?,?,?,?,?,?);")
	if err != nil {
		return "", err
	}
	defer pstmt.Close()

	for _, f := range tr.Frames {
		_, err = fstmt.ExecContext(ctx, run, f.Index, f.T, f.Total.X, f.Total.Y, f.Magnitude)
		if err != nil {
			return "", err
		}
		for i, p := range f.Config {
			d := f.Dipoles[i]
			_, err = pstmt.ExecContext(ctx, run, f.Index, i, string(p.Species), p.Charge, p.Weight, p.Pos.X, p.Pos.Y, d.X, d.Y)
			if err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return run, nil
}

// Magnitudes returns the signed dipole magnitudes of a recorded run in
// frame order.
func (s *Store) Magnitudes(ctx context.Context, run string) ([]float64, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT nframes FROM "+TblRuns+" WHERE run = ?;", run).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", NoRunErr, run)
	} else if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT magnitude FROM "+TblFrames+" WHERE run = ? ORDER BY frame;", run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mags := make([]float64, 0, n)
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		mags = append(mags, m)
	}
	return mags, rows.Err()
}

// Runs lists recorded run ids, oldest first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT run FROM "+TblRuns+" ORDER BY created, rowid;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
