package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/logger"
	"tubepilot/internal/progress"
	repository "tubepilot/internal/repository/iface"
	"tubepilot/internal/smm"
	"tubepilot/internal/textgen"
	"tubepilot/internal/youtube"
)

func testLogger() logger.Logger {
	log, err := logger.NewZapLoggerForDev()
	if err != nil {
		panic(err)
	}
	return log
}

// fakeScheduleRepo is a mutex-backed in-memory schedule store whose Claim has
// the same check-and-set semantics as the conditional update in DynamoDB
type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]*domain.JobSchedule
	claimErr  error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*domain.JobSchedule)}
}

func (r *fakeScheduleRepo) put(s *domain.JobSchedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.schedules[domain.ScheduleKey(s.JobType, s.ProjectID)] = &copied
}

func (r *fakeScheduleRepo) FindOrCreate(ctx context.Context, jobType domain.JobType, projectID string, defaultIntervalMinutes int) (*domain.JobSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.ScheduleKey(jobType, projectID)
	if s, ok := r.schedules[key]; ok {
		copied := *s
		return &copied, nil
	}
	s := domain.NewJobSchedule(jobType, projectID, defaultIntervalMinutes)
	r.schedules[key] = s
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) Get(ctx context.Context, jobType domain.JobType, projectID string) (*domain.JobSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[domain.ScheduleKey(jobType, projectID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, schedule *domain.JobSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *schedule
	r.schedules[domain.ScheduleKey(schedule.JobType, schedule.ProjectID)] = &copied
	return nil
}

func (r *fakeScheduleRepo) Claim(ctx context.Context, jobType domain.JobType, projectID string, now time.Time, threshold int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimErr != nil {
		return r.claimErr
	}
	s, ok := r.schedules[domain.ScheduleKey(jobType, projectID)]
	if !ok {
		return repository.ErrNotFound
	}
	if s.LastRunAt != 0 && s.LastRunAt > threshold {
		return repository.ErrSlotNotClaimed
	}
	s.LastRunAt = now.UnixMilli()
	return nil
}

func (r *fakeScheduleRepo) ClearLastRun(ctx context.Context, jobType domain.JobType, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.schedules[domain.ScheduleKey(jobType, projectID)]; ok {
		s.LastRunAt = 0
	}
	return nil
}

func (r *fakeScheduleRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.JobSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.JobSchedule
	for _, s := range r.schedules {
		if s.ProjectID == projectID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeJobRepo tracks queued job instances
type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*domain.ScheduledJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.ScheduledJob)}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobID] = job
	return nil
}

func (r *fakeJobRepo) Update(ctx context.Context, job *domain.ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.JobID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, jobID string) (*domain.ScheduledJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return job, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, jobID)
	return nil
}

func (r *fakeJobRepo) DeletePendingBySchedule(ctx context.Context, scheduleKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, job := range r.jobs {
		if job.ScheduleKey == scheduleKey && job.Status == domain.JobStatusScheduled {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// fakeScheduler records every Enqueue call instead of touching Redis
type fakeScheduler struct {
	mu         sync.Mutex
	enqueued   []*domain.ScheduledJob
	enqueueErr error
}

func (s *fakeScheduler) Start(ctx context.Context) error { return nil }
func (s *fakeScheduler) Stop(ctx context.Context) error  { return nil }

func (s *fakeScheduler) ScheduleJob(ctx context.Context, job *domain.ScheduledJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued = append(s.enqueued, job)
	return nil
}

func (s *fakeScheduler) Enqueue(ctx context.Context, jobType domain.JobType, userID, projectID string, options domain.JobOptions, delay time.Duration) (*domain.ScheduledJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enqueueErr != nil {
		return nil, s.enqueueErr
	}
	job := domain.NewScheduledJob(jobType, userID, projectID, options, time.Now().Add(delay))
	s.enqueued = append(s.enqueued, job)
	return job, nil
}

func (s *fakeScheduler) calls() []*domain.ScheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ScheduledJob, len(s.enqueued))
	copy(out, s.enqueued)
	return out
}

// fakeBroadcaster collects progress updates
type fakeBroadcaster struct {
	mu      sync.Mutex
	updates []progress.Update
	jobIDs  []string
}

func (b *fakeBroadcaster) Broadcast(ctx context.Context, userID, jobID string, update progress.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, update)
	b.jobIDs = append(b.jobIDs, jobID)
}

func (b *fakeBroadcaster) byStatus(status string) []progress.Update {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []progress.Update
	for _, u := range b.updates {
		if u.Status == status {
			out = append(out, u)
		}
	}
	return out
}

// fakeYouTube serves canned responses keyed by ID
type fakeYouTube struct {
	mu       sync.Mutex
	feeds    map[string][]youtube.FeedVideo
	feedErr  map[string]error
	comments map[string][]youtube.RemoteComment
	byID     map[string]*youtube.RemoteComment
	byIDErr  map[string]error
	metadata map[string]*youtube.VideoMetadata

	postErr    map[string]error // keyed by access token
	replyErr   map[string]error
	targetErr  map[string]error // keyed by post target
	postedSeq  int
	posted     []postedCall
	totalPosts int
}

type postedCall struct {
	AccessToken string
	TargetID    string
	Text        string
}

func newFakeYouTube() *fakeYouTube {
	return &fakeYouTube{
		feeds:     make(map[string][]youtube.FeedVideo),
		feedErr:   make(map[string]error),
		comments:  make(map[string][]youtube.RemoteComment),
		byID:      make(map[string]*youtube.RemoteComment),
		byIDErr:   make(map[string]error),
		metadata:  make(map[string]*youtube.VideoMetadata),
		postErr:   make(map[string]error),
		replyErr:  make(map[string]error),
		targetErr: make(map[string]error),
	}
}

func (y *fakeYouTube) FetchChannelFeed(ctx context.Context, channelID string) ([]youtube.FeedVideo, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	if err := y.feedErr[channelID]; err != nil {
		return nil, err
	}
	return y.feeds[channelID], nil
}

func (y *fakeYouTube) FetchVideoComments(ctx context.Context, videoID, order string, maxResults int) ([]youtube.RemoteComment, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.comments[videoID], nil
}

func (y *fakeYouTube) FetchCommentByID(ctx context.Context, commentID string) (*youtube.RemoteComment, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	if err := y.byIDErr[commentID]; err != nil {
		return nil, err
	}
	rc, ok := y.byID[commentID]
	if !ok {
		return nil, youtube.ErrNotFound
	}
	return rc, nil
}

func (y *fakeYouTube) PostComment(ctx context.Context, accessToken, videoID, text string) (*youtube.RemoteComment, error) {
	return y.post(accessToken, videoID, text, y.postErr)
}

func (y *fakeYouTube) PostReply(ctx context.Context, accessToken, parentCommentID, text string) (*youtube.RemoteComment, error) {
	return y.post(accessToken, parentCommentID, text, y.replyErr)
}

func (y *fakeYouTube) post(accessToken, targetID, text string, errs map[string]error) (*youtube.RemoteComment, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	if err := errs[accessToken]; err != nil {
		return nil, err
	}
	if err := y.targetErr[targetID]; err != nil {
		return nil, err
	}
	y.postedSeq++
	y.posted = append(y.posted, postedCall{AccessToken: accessToken, TargetID: targetID, Text: text})
	y.totalPosts++
	return &youtube.RemoteComment{CommentID: fmt.Sprintf("yt-comment-%d", y.postedSeq), Text: text}, nil
}

func (y *fakeYouTube) FetchVideoMetadata(ctx context.Context, videoID string) (*youtube.VideoMetadata, error) {
	y.mu.Lock()
	defer y.mu.Unlock()
	meta, ok := y.metadata[videoID]
	if !ok {
		return nil, youtube.ErrNotFound
	}
	return meta, nil
}

// fakePanel records placed orders and serves canned status reports
type fakePanel struct {
	mu        sync.Mutex
	orderSeq  int
	placed    []placedOrder
	placeErr  error
	reports   map[string]smm.OrderReport
	statusErr map[string]error // keyed by api key
	batches   [][]string
}

type placedOrder struct {
	APIKey    string
	ServiceID int
	Link      string
	Comments  []string
}

func newFakePanel() *fakePanel {
	return &fakePanel{
		reports:   make(map[string]smm.OrderReport),
		statusErr: make(map[string]error),
	}
}

func (p *fakePanel) PlaceCommentOrder(ctx context.Context, apiKey string, serviceID int, link string, comments []string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.placeErr != nil {
		return "", p.placeErr
	}
	p.orderSeq++
	p.placed = append(p.placed, placedOrder{APIKey: apiKey, ServiceID: serviceID, Link: link, Comments: comments})
	return fmt.Sprintf("%d", 9000+p.orderSeq), nil
}

func (p *fakePanel) FetchOrderStatuses(ctx context.Context, apiKey string, orderIDs []string) (map[string]smm.OrderReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.statusErr[apiKey]; err != nil {
		return nil, err
	}
	batch := make([]string, len(orderIDs))
	copy(batch, orderIDs)
	p.batches = append(p.batches, batch)
	out := make(map[string]smm.OrderReport, len(orderIDs))
	for _, id := range orderIDs {
		if report, ok := p.reports[id]; ok {
			out[id] = report
		}
	}
	return out, nil
}

func (p *fakePanel) FetchBalance(ctx context.Context, apiKey string) (*smm.Balance, error) {
	return &smm.Balance{Amount: 100, Currency: "USD"}, nil
}

// fakeGenerator hands out numbered texts
type fakeGenerator struct {
	mu         sync.Mutex
	seq        int
	failTitles map[string]bool
}

func (g *fakeGenerator) GenerateComment(ctx context.Context, video textgen.VideoContext) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failTitles[video.Title] {
		return "", errors.New("generator unavailable")
	}
	g.seq++
	return fmt.Sprintf("comment %d about %s", g.seq, video.Title), nil
}

func (g *fakeGenerator) GenerateReplies(ctx context.Context, video textgen.VideoContext, parentText string, count int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, count)
	for i := range out {
		g.seq++
		out[i] = fmt.Sprintf("reply %d", g.seq)
	}
	return out, nil
}

// fakeProjectRepo serves projects by ID
type fakeProjectRepo struct {
	projects map[string]*domain.Project
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	p, ok := r.projects[projectID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

type fakeCredentialRepo struct {
	credentials map[string]*domain.SmmPanelCredential
}

func (r *fakeCredentialRepo) GetByID(ctx context.Context, credentialID string) (*domain.SmmPanelCredential, error) {
	c, ok := r.credentials[credentialID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.GoogleAccount
}

func newFakeAccountRepo(accounts ...*domain.GoogleAccount) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[string]*domain.GoogleAccount)}
	for _, a := range accounts {
		r.accounts[a.AccountID] = a
	}
	return r
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, accountID string) (*domain.GoogleAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) ListUsableByUser(ctx context.Context, userID string) ([]*domain.GoogleAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.GoogleAccount
	for _, a := range r.accounts {
		if a.UserID == userID && a.Usable() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *domain.GoogleAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.AccountID] = account
	return nil
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*domain.Video
}

func newFakeVideoRepo(videos ...*domain.Video) *fakeVideoRepo {
	r := &fakeVideoRepo{videos: make(map[string]*domain.Video)}
	for _, v := range videos {
		r.videos[v.VideoID] = v
	}
	return r
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[video.VideoID] = video
	return nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[video.VideoID] = video
	return nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, videoID string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (r *fakeVideoRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Video
	for _, v := range r.videos {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) ExistsByYoutubeID(ctx context.Context, projectID, youtubeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.videos {
		if v.ProjectID == projectID && v.YoutubeID == youtubeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVideoRepo) CountByChannel(ctx context.Context, projectID, channelID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, v := range r.videos {
		if v.ProjectID == projectID && v.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[string]*domain.Channel // keyed projectID + "#" + youtubeChannelID
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: make(map[string]*domain.Channel)}
}

func (r *fakeChannelRepo) Create(ctx context.Context, channel *domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[channel.ProjectID+"#"+channel.YoutubeChannelID] = channel
	return nil
}

func (r *fakeChannelRepo) GetByYoutubeChannelID(ctx context.Context, projectID, youtubeChannelID string) (*domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.channels[projectID+"#"+youtubeChannelID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeSubscriptionRepo struct {
	subscriptions []*domain.ChannelSubscription
}

func (r *fakeSubscriptionRepo) ListActiveByProject(ctx context.Context, projectID string) ([]*domain.ChannelSubscription, error) {
	var out []*domain.ChannelSubscription
	for _, s := range r.subscriptions {
		if s.ProjectID == projectID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
}

func newFakeCommentRepo(comments ...*domain.Comment) *fakeCommentRepo {
	r := &fakeCommentRepo{comments: make(map[string]*domain.Comment)}
	for _, c := range comments {
		r.comments[c.CommentID] = c
	}
	return r
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.CommentID] = comment
	return nil
}

func (r *fakeCommentRepo) CreateBatch(ctx context.Context, comments []*domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range comments {
		r.comments[c.CommentID] = c
	}
	return nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.CommentID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeCommentRepo) ListVisibleTopLevel(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID && !c.Reply() && c.Status == domain.CommentStatusVisible {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) ListPostedReplies(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID && c.Reply() && c.AccountID != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) ListByVideo(ctx context.Context, videoID string) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) ExistsByYoutubeCommentID(ctx context.Context, videoID, youtubeCommentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.VideoID == videoID && c.YoutubeCommentID == youtubeCommentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCommentRepo) ListVideoIDsWithComments(ctx context.Context, projectID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, c := range r.comments {
		if c.ProjectID != projectID {
			continue
		}
		if _, ok := seen[c.VideoID]; ok {
			continue
		}
		seen[c.VideoID] = struct{}{}
		out = append(out, c.VideoID)
	}
	return out, nil
}

// all returns the stored comments, for assertions
func (r *fakeCommentRepo) all() []*domain.Comment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		out = append(out, c)
	}
	return out
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []*domain.CommentSnapshot
}

func (r *fakeSnapshotRepo) Create(ctx context.Context, snapshot *domain.CommentSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *fakeSnapshotRepo) GetLatestByComment(ctx context.Context, commentID string) (*domain.CommentSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.CommentSnapshot
	for _, s := range r.snapshots {
		if s.CommentID != commentID {
			continue
		}
		if latest == nil || s.TakenAt >= latest.TakenAt {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.SmmOrder
}

func newFakeOrderRepo(orders ...*domain.SmmOrder) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.SmmOrder)}
	for _, o := range orders {
		r.orders[o.OrderID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.SmmOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.OrderID] = order
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *domain.SmmOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.OrderID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.SmmOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListUncompletedByProject(ctx context.Context, projectID string) ([]*domain.SmmOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SmmOrder
	for _, o := range r.orders {
		if o.ProjectID == projectID && !o.Status.Terminal() {
			out = append(out, o)
		}
	}
	return out, nil
}
