package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tubepilot/internal/domain"
	"tubepilot/internal/smm"
	"tubepilot/internal/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderStatusFixture struct {
	executor    JobExecutor
	yt          *fakeYouTube
	panel       *fakePanel
	orderRepo   *fakeOrderRepo
	commentRepo *fakeCommentRepo
}

func newOrderStatusFixture(t *testing.T, project *domain.Project, videos []*domain.Video, orders []*domain.SmmOrder) *orderStatusFixture {
	t.Helper()
	f := &orderStatusFixture{
		yt:          newFakeYouTube(),
		panel:       newFakePanel(),
		orderRepo:   newFakeOrderRepo(orders...),
		commentRepo: newFakeCommentRepo(),
	}
	f.executor = NewSmmOrderStatusExecutor(
		f.panel, f.yt,
		&fakeProjectRepo{projects: map[string]*domain.Project{project.ProjectID: project}},
		&fakeCredentialRepo{credentials: map[string]*domain.SmmPanelCredential{
			"cred-1": {CredentialID: "cred-1", UserID: "user-1", APIKey: "key-1"},
			"cred-2": {CredentialID: "cred-2", UserID: "user-1", APIKey: "key-2"},
		}},
		f.orderRepo, newFakeVideoRepo(videos...), f.commentRepo, &fakeBroadcaster{}, testLogger())
	return f
}

func orderStatusJob() *domain.ScheduledJob {
	return domain.NewScheduledJob(domain.JobTypeSmmOrderStatusCheck, "user-1", "project-1", domain.JobOptions{}, time.Now())
}

func pendingOrder(id, externalID, credentialID, videoID string) *domain.SmmOrder {
	o := domain.NewSmmOrder("project-1", videoID, credentialID, externalID, domain.SmmServiceTypeComment, 2)
	o.OrderID = id
	return o
}

func TestSmmOrderStatusExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("applies panel reports to open orders", func(t *testing.T) {
		order := pendingOrder("order-1", "9001", "cred-1", "video-1")
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, []*domain.SmmOrder{order})
		f.panel.reports["9001"] = smm.OrderReport{Status: "In progress", Charge: 0.5, StartCount: 10, Remains: 2, Currency: "USD"}

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		updated, err := f.orderRepo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.SmmOrderStatusInProgress, updated.Status)
		assert.Equal(t, 0.5, updated.Charge)
		assert.Equal(t, 10, updated.StartCount)
		assert.Equal(t, 2, updated.Remains)
		assert.Equal(t, "USD", updated.Currency)
	})

	t.Run("batches per credential within the ceiling", func(t *testing.T) {
		var orders []*domain.SmmOrder
		for i := 0; i < smm.MaxStatusBatch+20; i++ {
			orders = append(orders, pendingOrder(
				fmt.Sprintf("order-%d", i), fmt.Sprintf("%d", 10000+i), "cred-1", "video-1"))
		}
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, orders)

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		require.Len(t, f.panel.batches, 2)
		total := 0
		for _, batch := range f.panel.batches {
			assert.LessOrEqual(t, len(batch), smm.MaxStatusBatch)
			total += len(batch)
		}
		assert.Equal(t, smm.MaxStatusBatch+20, total)
	})

	t.Run("orders under different credentials use their own keys", func(t *testing.T) {
		orders := []*domain.SmmOrder{
			pendingOrder("order-1", "9001", "cred-1", "video-1"),
			pendingOrder("order-2", "9002", "cred-2", "video-1"),
		}
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, orders)

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		assert.Len(t, f.panel.batches, 2, "each credential gets its own status call")
	})

	t.Run("one failing credential does not block the others", func(t *testing.T) {
		orders := []*domain.SmmOrder{
			pendingOrder("order-1", "9001", "cred-1", "video-1"),
			pendingOrder("order-2", "9002", "cred-2", "video-1"),
		}
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, orders)
		f.panel.statusErr["key-1"] = fmt.Errorf("panel down")
		f.panel.reports["9002"] = smm.OrderReport{Status: "In progress", Currency: "USD"}

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err, "a broken credential is contained, the run completes")

		updated, err := f.orderRepo.GetByID(ctx, "order-2")
		require.NoError(t, err)
		assert.Equal(t, domain.SmmOrderStatusInProgress, updated.Status)

		untouched, err := f.orderRepo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.SmmOrderStatusPending, untouched.Status)
	})

	t.Run("completion imports delivered comments by text marker", func(t *testing.T) {
		order := pendingOrder("order-1", "9001", "cred-1", "video-1")
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, []*domain.SmmOrder{order})
		f.panel.reports["9001"] = smm.OrderReport{Status: "Completed"}

		f.yt.comments["yt-1"] = []youtube.RemoteComment{
			{CommentID: "ytc-1", Text: "test campaign really delivers", AuthorDisplayName: "some fan", LikeCount: 2},
			{CommentID: "ytc-2", Text: "unrelated", AuthorDisplayName: "Test Campaign Official"},
			{CommentID: "ytc-3", Text: "loving Test Campaign content", AuthorDisplayName: "random viewer"},
		}

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		comments := f.commentRepo.all()
		require.Len(t, comments, 2, "only comment text carrying the project name is adopted")
		for _, c := range comments {
			assert.Equal(t, domain.CommentPostTypeViaSmm, c.PostType)
			assert.Empty(t, c.AccountID)
			assert.NotEmpty(t, c.YoutubeCommentID)
		}
	})

	t.Run("already imported comments are not duplicated", func(t *testing.T) {
		order := pendingOrder("order-1", "9001", "cred-1", "video-1")
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, []*domain.SmmOrder{order})
		f.panel.reports["9001"] = smm.OrderReport{Status: "Completed"}

		existing := domain.NewComment("project-1", "video-1", "", "test campaign is great", domain.CommentPostTypeViaSmm)
		existing.YoutubeCommentID = "ytc-1"
		require.NoError(t, f.commentRepo.Create(ctx, existing))

		f.yt.comments["yt-1"] = []youtube.RemoteComment{
			{CommentID: "ytc-1", Text: "test campaign is great", AuthorDisplayName: "some fan"},
		}

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		assert.Len(t, f.commentRepo.all(), 1)
	})

	t.Run("per-order panel errors do not fail the batch", func(t *testing.T) {
		orders := []*domain.SmmOrder{
			pendingOrder("order-1", "9001", "cred-1", "video-1"),
			pendingOrder("order-2", "9002", "cred-1", "video-1"),
		}
		f := newOrderStatusFixture(t, smmProject(), []*domain.Video{projectVideo("video-1", "yt-1", 100)}, orders)
		f.panel.reports["9001"] = smm.OrderReport{Err: smm.ErrInvalidService}
		f.panel.reports["9002"] = smm.OrderReport{Status: "Processing"}

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)

		untouched, err := f.orderRepo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.SmmOrderStatusPending, untouched.Status)

		updated, err := f.orderRepo.GetByID(ctx, "order-2")
		require.NoError(t, err)
		assert.Equal(t, domain.SmmOrderStatusProcessing, updated.Status)
	})

	t.Run("no open orders is a no-op", func(t *testing.T) {
		f := newOrderStatusFixture(t, smmProject(), nil, nil)

		err := f.executor.Execute(ctx, orderStatusJob())
		require.NoError(t, err)
		assert.Empty(t, f.panel.batches)
	})
}
