package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkaforge/polkaforge/backend/internal/model/job"
)

func newTestService(delay time.Duration) *Service {
	return NewService(job.NewMemoryStore(job.Seed()), delay, zerolog.Nop())
}

func TestApplyIncrementsApplicants(t *testing.T) {
	svc := newTestService(0)

	receipt, err := svc.Apply(context.Background(), 2, Application{Applicant: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.JobID)
	assert.Equal(t, "submitted", receipt.Status)
	assert.NotEmpty(t, receipt.ID)

	jobs := svc.Search("substrate developer")
	require.Len(t, jobs, 1)
	assert.Equal(t, 9, jobs[0].Applicants)
}

func TestApplyValidation(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.Apply(context.Background(), 2, Application{})
	assert.ErrorIs(t, err, ErrInvalidApplicant)

	_, err = svc.Apply(context.Background(), 42, Application{Applicant: "bob"})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestApplyHonoursContext(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Apply(ctx, 1, Application{Applicant: "carol"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostNormalisesDraft(t *testing.T) {
	svc := newTestService(time.Millisecond)

	posted, err := svc.Post(context.Background(), Draft{
		Title:   " Runtime Engineer ",
		Company: "Parity",
		Reward:  900,
		Skills:  []string{" Rust", "", "FRAME "},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, posted.ID)
	assert.Equal(t, "Runtime Engineer", posted.Title)
	assert.Equal(t, "Remote", posted.Location)
	assert.Equal(t, []string{"Rust", "FRAME"}, posted.Skills)

	assert.Len(t, svc.Search("parity"), 1)
}

func TestPostValidation(t *testing.T) {
	svc := newTestService(0)

	_, err := svc.Post(context.Background(), Draft{Title: "x", Company: "y"})
	assert.ErrorIs(t, err, ErrInvalidJob)
}
