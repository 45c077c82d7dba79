package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedEntries(channelID string, n int) []youtube.FeedVideo {
	entries := make([]youtube.FeedVideo, n)
	for i := 0; i < n; i++ {
		// Newest first, the way the upload feed is ordered
		entries[i] = youtube.FeedVideo{
			VideoID:     fmt.Sprintf("%s-video-%d", channelID, n-i),
			ChannelID:   channelID,
			Title:       fmt.Sprintf("Upload %d", n-i),
			PublishedAt: time.Now().Add(-time.Duration(i) * time.Hour).UnixMilli(),
		}
	}
	return entries
}

func feedFixture(t *testing.T, subs []*domain.ChannelSubscription, videos ...*domain.Video) (JobExecutor, *fakeYouTube, *fakeVideoRepo, *fakeScheduler) {
	t.Helper()
	yt := newFakeYouTube()
	videoRepo := newFakeVideoRepo(videos...)
	scheduler := &fakeScheduler{}
	executor := NewFeedPollingExecutor(yt, scheduler, videoRepo, newFakeChannelRepo(),
		&fakeSubscriptionRepo{subscriptions: subs}, &fakeBroadcaster{}, testLogger())
	return executor, yt, videoRepo, scheduler
}

func pollingJob() *domain.ScheduledJob {
	return domain.NewScheduledJob(domain.JobTypeChannelFeedPolling, "user-1", "project-1", domain.JobOptions{}, time.Now())
}

func TestFeedPollingExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("first poll imports at most the initial limit", func(t *testing.T) {
		sub := &domain.ChannelSubscription{
			SubscriptionID:     "sub-1",
			ProjectID:          "project-1",
			YoutubeChannelID:   "UC1",
			Active:             true,
			InitialImportLimit: 3,
		}
		executor, yt, videoRepo, scheduler := feedFixture(t, []*domain.ChannelSubscription{sub})
		yt.feeds["UC1"] = feedEntries("UC1", 10)

		err := executor.Execute(ctx, pollingJob())
		require.NoError(t, err)

		stored, err := videoRepo.ListByProject(ctx, "project-1")
		require.NoError(t, err)
		assert.Len(t, stored, 3, "first poll must cap at the initial import limit")

		// Each import gets a metadata follow-up
		followUps := scheduler.calls()
		require.Len(t, followUps, 3)
		for _, job := range followUps {
			assert.Equal(t, domain.JobTypeFetchVideoMetadata, job.JobType)
			assert.NotEmpty(t, job.Options.VideoID)
		}
	})

	t.Run("unset limit defaults", func(t *testing.T) {
		sub := &domain.ChannelSubscription{
			SubscriptionID:   "sub-1",
			ProjectID:        "project-1",
			YoutubeChannelID: "UC1",
			Active:           true,
		}
		executor, yt, videoRepo, _ := feedFixture(t, []*domain.ChannelSubscription{sub})
		yt.feeds["UC1"] = feedEntries("UC1", 10)

		err := executor.Execute(ctx, pollingJob())
		require.NoError(t, err)

		stored, err := videoRepo.ListByProject(ctx, "project-1")
		require.NoError(t, err)
		assert.Len(t, stored, DefaultInitialImportLimit)
	})

	t.Run("incremental poll stops at the first known video", func(t *testing.T) {
		sub := &domain.ChannelSubscription{
			SubscriptionID:   "sub-1",
			ProjectID:        "project-1",
			YoutubeChannelID: "UC1",
			Active:           true,
		}
		// One video already imported from a previous poll
		known := domain.NewVideo("project-1", "UC1-video-8", "UC1", "Upload 8", VideoSourceFeed)
		executor, yt, videoRepo, _ := feedFixture(t, []*domain.ChannelSubscription{sub}, known)
		yt.feeds["UC1"] = feedEntries("UC1", 10)

		err := executor.Execute(ctx, pollingJob())
		require.NoError(t, err)

		stored, err := videoRepo.ListByProject(ctx, "project-1")
		require.NoError(t, err)
		// Only the two entries newer than the known one get imported; the
		// older seven behind it are never reached
		assert.Len(t, stored, 3)

		imported := make(map[string]bool)
		for _, v := range stored {
			imported[v.YoutubeID] = true
		}
		assert.True(t, imported["UC1-video-10"])
		assert.True(t, imported["UC1-video-9"])
		assert.False(t, imported["UC1-video-7"], "entries older than the known video must not be imported")
	})

	t.Run("one failing subscription does not block the others", func(t *testing.T) {
		subs := []*domain.ChannelSubscription{
			{SubscriptionID: "sub-1", ProjectID: "project-1", YoutubeChannelID: "UC1", Active: true},
			{SubscriptionID: "sub-2", ProjectID: "project-1", YoutubeChannelID: "UC2", Active: true},
		}
		executor, yt, videoRepo, _ := feedFixture(t, subs)
		yt.feedErr["UC1"] = errors.New("feed unreachable")
		yt.feeds["UC2"] = feedEntries("UC2", 2)

		err := executor.Execute(ctx, pollingJob())
		require.NoError(t, err, "a broken feed is contained, the run completes")

		stored, listErr := videoRepo.ListByProject(ctx, "project-1")
		require.NoError(t, listErr)
		assert.Len(t, stored, 2, "healthy subscription must still import")
	})

	t.Run("no active subscriptions is a no-op", func(t *testing.T) {
		executor, _, videoRepo, scheduler := feedFixture(t, nil)

		err := executor.Execute(ctx, pollingJob())
		require.NoError(t, err)

		stored, listErr := videoRepo.ListByProject(ctx, "project-1")
		require.NoError(t, listErr)
		assert.Empty(t, stored)
		assert.Empty(t, scheduler.calls())
	})
}
