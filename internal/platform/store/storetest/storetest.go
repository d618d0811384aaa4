// Package storetest provides store fakes for tests that keep repos in memory
package storetest

import (
	"context"
	"errors"

	"certifica/internal/platform/store"
)

var errNoSQL = errors.New("storetest.Tx does not run sql")

// Tx is a store.TxRunner for repos faked in memory: Tx runs fn directly and every query fails
type Tx struct{}

var _ store.TxRunner = Tx{}

func (Tx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, errNoSQL }

func (Tx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, errNoSQL }

func (Tx) QueryRow(context.Context, string, ...any) store.Row { return errRow{} }

func (t Tx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(t) }

type errRow struct{}

func (errRow) Scan(...any) error { return errNoSQL }
