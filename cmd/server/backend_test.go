package main

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*postgres.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	return postgres.Wrap(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestAttachDB(t *testing.T) {
	t.Run("postgres source keeps the db open", func(t *testing.T) {
		db, mock := newMockDB(t)
		b := &backend{}

		require.NoError(t, b.attachDB(db, &config.Config{Backend: config.BackendConfig{Source: config.SourcePostgres}}))
		assert.Equal(t, config.SourcePostgres, b.name)
		assert.NotNil(t, b.inventory)
		assert.NotNil(t, b.orders)
		assert.NotNil(t, b.reports)
		assert.Nil(t, b.notifier)

		mock.ExpectClose()
		b.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("closes the db when a client cannot be built", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectClose()
		b := &backend{}

		err := b.attachDB(db, &config.Config{Backend: config.BackendConfig{
			Source:   config.SourceHTTP,
			BaseURLs: config.BaseURLs{Inventory: "http://inventory.local"},
		}})

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Empty(t, b.closers)
	})

	t.Run("closes the db on an unknown source", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectClose()
		b := &backend{}

		err := b.attachDB(db, &config.Config{Backend: config.BackendConfig{Source: "ftp"}})

		assert.ErrorContains(t, err, `unknown backend source "ftp"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
