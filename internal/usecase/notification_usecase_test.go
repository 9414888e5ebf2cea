package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loklagbe/internal/domain/entity"
	"loklagbe/pkg/errors"
)

func TestUnreadAndOpen(t *testing.T) {
	f := newFixture()
	seedParties(f)
	seedWork(f, entity.WorkStatusActive, worker)
	f.s.notifications["n1"] = &entity.Notification{
		ID: "n1", ToUserID: poster, FromUserID: worker, WorkID: "w1",
		Type: entity.NotificationAcceptedSent, Message: "applied",
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	f.s.notifications["n2"] = &entity.Notification{
		ID: "n2", ToUserID: poster, Type: entity.NotificationGeneral, Message: "hello", Read: true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	list, err := f.notifications.List(context.Background(), sessionOf(poster))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n1", list[0].ID)

	unread, err := f.notifications.Unread(context.Background(), sessionOf(poster))
	require.NoError(t, err)
	assert.Equal(t, &UnreadSummary{HasUnread: true, Count: 1}, unread)

	detail, err := f.notifications.Open(context.Background(), sessionOf(poster), "n1")
	require.NoError(t, err)
	assert.True(t, detail.Notification.Read)
	require.NotNil(t, detail.Work)
	assert.Equal(t, "w1", detail.Work.ID)
	assert.Equal(t, "Rahim Worker", detail.FromName)
	assert.Equal(t, "Karim Poster", detail.PosterName)
	assert.Equal(t, "Rahim Worker", detail.WorkerName)
	assert.True(t, f.s.notifications["n1"].Read)

	unread, err = f.notifications.Unread(context.Background(), sessionOf(poster))
	require.NoError(t, err)
	assert.False(t, unread.HasUnread)
}

func TestOpenToleratesDeletedWork(t *testing.T) {
	f := newFixture()
	seedParties(f)
	f.s.notifications["n1"] = &entity.Notification{ID: "n1", ToUserID: worker, WorkID: "gone", Message: "m"}

	detail, err := f.notifications.Open(context.Background(), sessionOf(worker), "n1")
	require.NoError(t, err)
	assert.Nil(t, detail.Work)
}

func TestNotificationsAreOwned(t *testing.T) {
	f := newFixture()
	seedParties(f)
	f.s.notifications["n1"] = &entity.Notification{ID: "n1", ToUserID: poster, Message: "m"}

	_, err := f.notifications.Open(context.Background(), sessionOf(stranger), "n1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	err = f.notifications.MarkRead(context.Background(), sessionOf(stranger), "n1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.False(t, f.s.notifications["n1"].Read)

	require.NoError(t, f.notifications.MarkRead(context.Background(), sessionOf(poster), "n1"))
	assert.True(t, f.s.notifications["n1"].Read)
}
