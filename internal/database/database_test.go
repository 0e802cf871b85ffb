package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingWithRetry_RecoversAfterFailures(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	require.NoError(t, pingWithRetry(context.Background(), db, 3, time.Millisecond))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	mock.ExpectPing().WillReturnError(errors.New("down"))

	err = pingWithRetry(context.Background(), db, 2, time.Millisecond)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestPingWithRetry_ContextCancelled(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = pingWithRetry(ctx, db, 3, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatDSN(t *testing.T) {
	assert.Equal(t, "web:pw@tcp(db:3306)/site", FormatDSN("web:%s@tcp(db:3306)/site", "pw"))
	assert.Equal(t, "web@tcp(db)/site", FormatDSN("web@tcp(db)/site", "pw"))
}
