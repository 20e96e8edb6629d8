package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/apperror"
)

type widget struct {
	ID   uint
	Name string
}

func TestOpenWithoutConnectionString(t *testing.T) {
	s := Open(context.Background(), "   ")

	assert.False(t, s.IsConnected())
	assert.Nil(t, s.DB())
	assert.ErrorIs(t, s.RequireConnected(), apperror.ErrNoDatabaseConnection)
	assert.ErrorIs(t, s.Ping(context.Background()), apperror.ErrNoDatabaseConnection)
	assert.NoError(t, s.Register(&widget{}))
	assert.NoError(t, s.Close())
}

func TestOpenUnknownSchemeStaysDisconnected(t *testing.T) {
	s := Open(context.Background(), "mongodb://localhost:27017/stock")
	assert.False(t, s.IsConnected())
}

func TestZeroSessionIsDisconnected(t *testing.T) {
	var s Session
	assert.False(t, s.IsConnected())
	assert.Error(t, s.RequireConnected())
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sqlite://file:session_open?mode=memory&cache=shared")
	require.True(t, s.IsConnected())

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Register(&widget{}))
	require.NoError(t, s.Register(&widget{}, widget{}))
	assert.True(t, s.DB().Migrator().HasTable(&widget{}))

	require.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
	assert.NoError(t, s.Close())
}

func TestDialectorFor(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/stock":   "postgres",
		"postgresql://u:p@localhost:5432/stock": "postgres",
		"mysql://u:p@tcp(localhost:3306)/stock": "mysql",
		"sqlite://stock.db":                     "sqlite",
		"file:stock.db?cache=shared":            "sqlite",
	}
	for conn, want := range cases {
		d, err := dialectorFor(conn)
		require.NoError(t, err, conn)
		assert.Equal(t, want, d.Name(), conn)
	}

	_, err := dialectorFor("redis://localhost")
	assert.ErrorIs(t, err, ErrUnsupportedDSN)
}

func TestTestConnection(t *testing.T) {
	err := TestConnection(context.Background(), " ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.EqualError(t, err, "Connection string cannot be empty")

	assert.ErrorIs(t, TestConnection(context.Background(), "ftp://nowhere"), ErrUnsupportedDSN)
	assert.NoError(t, TestConnection(context.Background(), "file:session_probe?mode=memory"))
}
