// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	filmKeyPrefix = "film:"
	nameKeyPrefix = "film_name:"
	nextRowKey    = "meta:next_row"
)

// OpenBadger opens the ratings database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open ratings database: %w", err)
	}
	return db, nil
}

// BadgerSheet implements Sheet on BadgerDB. Rows are keyed by a zero-padded
// row number so iteration yields append order; a second key maps names to rows.
type BadgerSheet struct {
	db *badger.DB
}

// NewBadgerSheet creates a sheet over an open database.
func NewBadgerSheet(db *badger.DB) *BadgerSheet {
	return &BadgerSheet{db: db}
}

func filmKey(row int) []byte {
	return []byte(fmt.Sprintf("%s%010d", filmKeyPrefix, row))
}

func nameKey(name string) []byte {
	return []byte(nameKeyPrefix + name)
}

// All returns every row in append order.
func (s *BadgerSheet) All(ctx context.Context) ([]Film, error) {
	var films []Film
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(filmKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var f Film
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &f)
			}); err != nil {
				return fmt.Errorf("decode film %s: %w", it.Item().Key(), err)
			}
			films = append(films, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	return films, nil
}

// Find returns the row with the exact name.
func (s *BadgerSheet) Find(ctx context.Context, name string) (Film, error) {
	var f Film
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		f, err = findTxn(txn, name)
		return err
	})
	return f, err
}

func findTxn(txn *badger.Txn, name string) (Film, error) {
	row, err := rowForName(txn, name)
	if err != nil {
		return Film{}, err
	}
	item, err := txn.Get(filmKey(row))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Film{}, fmt.Errorf("name index points at missing row %d: %w", row, ErrFilmNotFound)
	}
	if err != nil {
		return Film{}, fmt.Errorf("get film: %w", err)
	}
	var f Film
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &f)
	})
	return f, err
}

func rowForName(txn *badger.Txn, name string) (int, error) {
	item, err := txn.Get(nameKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrFilmNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get name index: %w", err)
	}
	var row int
	err = item.Value(func(val []byte) error {
		var perr error
		row, perr = strconv.Atoi(string(val))
		return perr
	})
	return row, err
}

// UpdateScores replaces the scores and mean of an existing row.
func (s *BadgerSheet) UpdateScores(ctx context.Context, name string, usr1, usr2, mean float64) (Film, error) {
	var f Film
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		f, err = findTxn(txn, name)
		if err != nil {
			return err
		}
		f.Usr1, f.Usr2, f.Mean = usr1, usr2, mean

		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal film: %w", err)
		}
		return txn.Set(filmKey(f.Row), data)
	})
	return f, err
}

// Append adds film as the next row. The name must not already exist.
func (s *BadgerSheet) Append(ctx context.Context, film Film) (Film, error) {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := rowForName(txn, film.Name); err == nil {
			return fmt.Errorf("%w: %q", ErrFilmExists, film.Name)
		} else if !errors.Is(err, ErrFilmNotFound) {
			return err
		}

		row, err := nextRow(txn)
		if err != nil {
			return err
		}
		film.Row = row

		data, err := json.Marshal(film)
		if err != nil {
			return fmt.Errorf("marshal film: %w", err)
		}
		if err := txn.Set(filmKey(row), data); err != nil {
			return fmt.Errorf("set film: %w", err)
		}
		if err := txn.Set(nameKey(film.Name), []byte(strconv.Itoa(row))); err != nil {
			return fmt.Errorf("set name index: %w", err)
		}
		return txn.Set([]byte(nextRowKey), []byte(strconv.Itoa(row+1)))
	})
	if err != nil {
		return Film{}, err
	}
	return film, nil
}

// nextRow returns the row number for the next append, starting at 1.
func nextRow(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(nextRowKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get row counter: %w", err)
	}
	var row int
	err = item.Value(func(val []byte) error {
		var perr error
		row, perr = strconv.Atoi(string(val))
		return perr
	})
	return row, err
}
