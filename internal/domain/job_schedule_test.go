package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, ValidateInterval(1))
	assert.NoError(t, ValidateInterval(60))
	assert.NoError(t, ValidateInterval(1440))

	assert.Error(t, ValidateInterval(0))
	assert.Error(t, ValidateInterval(-5))
	assert.Error(t, ValidateInterval(1441))
}

func TestClaimThreshold(t *testing.T) {
	now := time.Now()
	schedule := NewJobSchedule(JobTypeChannelFeedPolling, "project-1", 60)

	threshold := schedule.ClaimThreshold(now)
	assert.Equal(t, now.Add(-30*time.Minute).UnixMilli(), threshold)

	t.Run("run inside half interval blocks a claim", func(t *testing.T) {
		schedule.LastRunAt = now.Add(-10 * time.Minute).UnixMilli()
		assert.Greater(t, schedule.LastRunAt, schedule.ClaimThreshold(now))
		assert.True(t, schedule.RecentlyRan(now))
	})

	t.Run("run older than half interval allows a claim", func(t *testing.T) {
		schedule.LastRunAt = now.Add(-45 * time.Minute).UnixMilli()
		assert.LessOrEqual(t, schedule.LastRunAt, schedule.ClaimThreshold(now))
		assert.False(t, schedule.RecentlyRan(now))
	})

	t.Run("never ran", func(t *testing.T) {
		schedule.LastRunAt = 0
		assert.False(t, schedule.RecentlyRan(now))
	})
}

func TestDue(t *testing.T) {
	now := time.Now()

	schedule := NewJobSchedule(JobTypeCommentPosting, "project-1", 30)
	assert.False(t, schedule.Due(now), "disabled schedules are never due")

	schedule.Enabled = true
	assert.True(t, schedule.Due(now), "enabled schedule that never ran is due")

	schedule.LastRunAt = now.Add(-10 * time.Minute).UnixMilli()
	assert.False(t, schedule.Due(now))

	schedule.LastRunAt = now.Add(-31 * time.Minute).UnixMilli()
	assert.True(t, schedule.Due(now))
}

func TestScheduleStatus(t *testing.T) {
	schedule := NewJobSchedule(JobTypeCommentStatusCheck, "project-1", 60)
	require.False(t, schedule.Enabled)
	assert.Equal(t, ScheduleStatusStopped, schedule.Status())
	assert.True(t, schedule.NextRunAt().IsZero())

	schedule.Enabled = true
	assert.Equal(t, ScheduleStatusStarting, schedule.Status())
	assert.False(t, schedule.NextRunAt().IsZero())

	lastRun := time.Now().Add(-20 * time.Minute)
	schedule.LastRunAt = lastRun.UnixMilli()
	assert.Equal(t, ScheduleStatusRunning, schedule.Status())
	assert.WithinDuration(t, lastRun.Add(time.Hour), schedule.NextRunAt(), time.Second)
}

func TestScheduleKey(t *testing.T) {
	assert.Equal(t, "CHANNEL_FEED_POLLING#project-1",
		ScheduleKey(JobTypeChannelFeedPolling, "project-1"))

	job := NewScheduledJob(JobTypeCommentPosting, "user-1", "project-1", JobOptions{}, time.Now())
	assert.Equal(t, "COMMENT_POSTING#project-1", job.ScheduleKey)
	assert.Equal(t, JobStatusScheduled, job.Status)
	assert.NotEmpty(t, job.JobID)
}
