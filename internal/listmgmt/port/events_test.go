package port_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/listmgmt/port"
)

func newEventsMux(subscribe port.SubscribeFunc) *http.ServeMux {
	mux := http.NewServeMux()
	port.NewEventsHandler(subscribe, testLogger()).Mount(mux)
	return mux
}

func TestEventsHandler_Stream(t *testing.T) {
	ch := make(chan app.Envelope, 2)
	ch <- app.Envelope{
		Category: app.CategoryMemberUpdates,
		Type:     app.EventJoin,
		Affector: app.ShortMember{UserID: "u-2", ScreenName: "bob"},
		Member:   &app.ShortMember{UserID: "u-2", ScreenName: "bob"},
	}
	ch <- app.Envelope{
		Category: app.CategoryItemUpdates,
		Type:     app.EventItemAdd,
		Affector: app.ShortMember{UserID: "u-1", ScreenName: "alice"},
		Item:     &app.Item{ItemID: "item-1", Name: "Milk"},
	}
	close(ch)

	var stopped atomic.Bool
	mux := newEventsMux(func(_ context.Context, listID string) (<-chan app.Envelope, func() error, error) {
		assert.Equal(t, "list-1", listID)
		return ch, func() error {
			stopped.Store(true)
			return nil
		}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/lists/list-1/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, stopped.Load())

	var lines []app.Envelope
	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		var env app.Envelope
		require.NoError(t, json.Unmarshal([]byte(scanner.Text()), &env))
		lines = append(lines, env)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, app.EventJoin, lines[0].Type)
	require.NotNil(t, lines[0].Member)
	assert.Equal(t, "bob", lines[0].Member.ScreenName)
	assert.Equal(t, app.EventItemAdd, lines[1].Type)
	require.NotNil(t, lines[1].Item)
	assert.Equal(t, "Milk", lines[1].Item.Name)
}

func TestEventsHandler_SubscribeError(t *testing.T) {
	mux := newEventsMux(func(context.Context, string) (<-chan app.Envelope, func() error, error) {
		return nil, nil, domain.ErrUnavailable
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/lists/list-1/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestEventsHandler_ClientDisconnect(t *testing.T) {
	// An undelivered channel plus a cancelled request context ends the
	// stream and detaches the subscriber.
	ch := make(chan app.Envelope)
	var stopped atomic.Bool
	mux := newEventsMux(func(context.Context, string) (<-chan app.Envelope, func() error, error) {
		return ch, func() error {
			stopped.Store(true)
			return nil
		}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/lists/list-1/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stopped.Load())
}
