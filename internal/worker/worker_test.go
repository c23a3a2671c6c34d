package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/pkg/mailer"
	"github.com/Talts01/SocialPizza/pkg/queue"
)

func testJob(t *testing.T, jobType queue.JobType, payload any) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &queue.Job{ID: "job-1", Type: jobType, Payload: raw}
}

func TestProcess(t *testing.T) {
	// no SMTP host: sending is a no-op, so Process exercises only the
	// job handling itself
	p := NewNotificationProcessor(mailer.New("", 0, "", "", "noreply@test", "Test"), nil, nil)

	t.Run("decision mail", func(t *testing.T) {
		job := testJob(t, queue.JobTypeDecisionMail, queue.DecisionMailPayload{
			EventID:        9,
			EventTitle:     "Serata Margherita",
			RestaurantName: "Da Mario",
			Decision:       "REJECTED",
			Comment:        "troppo tardi",
			RecipientEmail: "org@test.it",
			RecipientName:  "Anna",
		})
		require.NoError(t, p.Process(context.Background(), job))
	})

	t.Run("cancelled mail", func(t *testing.T) {
		job := testJob(t, queue.JobTypeCancelledMail, queue.CancelledMailPayload{
			EventID:         3,
			EventTitle:      "Gran fritto",
			RestaurantName:  "Osteria",
			RecipientEmails: []string{"a@test.it", "b@test.it"},
		})
		require.NoError(t, p.Process(context.Background(), job))
	})

	t.Run("unknown job type fails", func(t *testing.T) {
		job := &queue.Job{ID: "job-x", Type: queue.JobType("resize_image")}
		require.Error(t, p.Process(context.Background(), job))
	})

	t.Run("malformed payload fails", func(t *testing.T) {
		job := &queue.Job{ID: "job-y", Type: queue.JobTypeDecisionMail, Payload: []byte("{")}
		require.Error(t, p.Process(context.Background(), job))
	})
}
