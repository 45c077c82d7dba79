package domain

// JobType identifies a recurring job kind
type JobType string

const (
	JobTypeChannelFeedPolling  JobType = "CHANNEL_FEED_POLLING"
	JobTypeCommentStatusCheck  JobType = "COMMENT_STATUS_CHECK"
	JobTypeCommentPosting      JobType = "COMMENT_POSTING"
	JobTypeSmmOrderStatusCheck JobType = "SMM_ORDER_STATUS_CHECK"

	// On-demand job types; they go through the same queue but have no
	// JobSchedule row and never claim a slot.
	JobTypeReplyPosting       JobType = "REPLY_POSTING"
	JobTypeFetchVideoMetadata JobType = "FETCH_VIDEO_METADATA"
)

// RecurringJobTypes lists the job types driven by a JobSchedule row
var RecurringJobTypes = []JobType{
	JobTypeChannelFeedPolling,
	JobTypeCommentStatusCheck,
	JobTypeCommentPosting,
	JobTypeSmmOrderStatusCheck,
}

var jobDisplayNames = map[JobType]string{
	JobTypeChannelFeedPolling:  "Channel Feed Polling",
	JobTypeCommentStatusCheck:  "Comment Status Check",
	JobTypeCommentPosting:      "Comment Posting",
	JobTypeSmmOrderStatusCheck: "SMM Order Status Check",
	JobTypeReplyPosting:        "Reply Posting",
	JobTypeFetchVideoMetadata:  "Video Metadata Fetch",
}

// DisplayName returns the human-readable name shown in progress updates
func (t JobType) DisplayName() string {
	if name, ok := jobDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// Recurring reports whether this job type is driven by a schedule
func (t JobType) Recurring() bool {
	for _, rt := range RecurringJobTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Valid reports whether the job type is known
func (t JobType) Valid() bool {
	_, ok := jobDisplayNames[t]
	return ok
}
