package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockledger/internal/database"
)

func openTestSession(t *testing.T) *database.Session {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	session := database.Open(context.Background(), "file:"+name+"?mode=memory&cache=shared")
	require.True(t, session.IsConnected())
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(collection string) {
	n.events = append(n.events, collection)
}

func date(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}
