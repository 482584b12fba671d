package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/frabrice/Emodocar-web/app/models"
)

func TestLiveKeepsUnexpiredNotificationsInOrder(t *testing.T) {
	m := NewManager(time.Minute)
	go m.Start()

	m.Notify(context.Background(), models.NotificationInfo, "first")
	m.Notify(context.Background(), models.NotificationSuccess, "second")

	live := m.Live()
	require.Len(t, live, 2)
	require.Equal(t, "first", live[0].Message)
	require.Equal(t, "second", live[1].Message)
	require.Equal(t, models.NotificationSuccess, live[1].Level)
	require.NotEmpty(t, live[0].ID)
}

func TestLiveDropsExpiredNotifications(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	go m.Start()

	m.Notify(context.Background(), models.NotificationError, "transient")
	require.Len(t, m.Live(), 1)

	require.Eventually(t, func() bool {
		return len(m.Live()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSubscriberReceivesNotifications(t *testing.T) {
	m := NewManager(time.Minute)
	go m.Start()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := m.Subscribe(r.Context(), &models.NewSubscription{ResponseWriter: w, Request: r})
		require.NoError(t, err)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()

	// give the hub a moment to register the subscription
	time.Sleep(100 * time.Millisecond)
	m.Notify(context.Background(), models.NotificationSuccess, "wallet topped up")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	got := new(models.Notification)
	require.NoError(t, conn.ReadJSON(got))
	require.Equal(t, models.NotificationSuccess, got.Level)
	require.Equal(t, "wallet topped up", got.Message)
}
