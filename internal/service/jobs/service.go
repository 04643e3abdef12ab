package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/model/job"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJob       = errors.New("title, company and a positive reward are required")
	ErrInvalidApplicant = errors.New("applicant name is required")
)

// Application is a candidate's submission for a listing.
type Application struct {
	Applicant   string `json:"applicant"`
	CoverLetter string `json:"coverLetter"`
	Portfolio   string `json:"portfolio"`
}

// Receipt confirms a submitted application.
type Receipt struct {
	ID          string    `json:"id"`
	JobID       int       `json:"jobId"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Draft is a new listing as entered in the post-a-job form.
type Draft struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Reward      int      `json:"reward"`
	Deadline    string   `json:"deadline"`
	Skills      []string `json:"skills"`
}

// Service runs the scripted apply and post flows.
type Service struct {
	store job.Store
	delay time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// NewService wires the job board. delay is the simulated processing time of apply and post.
func NewService(store job.Store, delay time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		delay: delay,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Search filters listings by a free-text term.
func (s *Service) Search(term string) []job.Job {
	return s.store.Search(term)
}

// Apply submits an application after the simulated delay.
func (s *Service) Apply(ctx context.Context, jobID int, app Application) (Receipt, error) {
	if strings.TrimSpace(app.Applicant) == "" {
		return Receipt{}, ErrInvalidApplicant
	}
	if _, ok := s.store.FindByID(jobID); !ok {
		return Receipt{}, ErrJobNotFound
	}
	if err := s.wait(ctx); err != nil {
		return Receipt{}, err
	}

	if _, ok := s.store.IncrementApplicants(jobID); !ok {
		return Receipt{}, ErrJobNotFound
	}
	receipt := Receipt{
		ID:          uuid.NewString(),
		JobID:       jobID,
		Status:      "submitted",
		SubmittedAt: s.now(),
	}
	s.log.Info().Int("job", jobID).Str("receipt", receipt.ID).Msg("application submitted")
	return receipt, nil
}

// Post publishes a new listing after the simulated delay.
func (s *Service) Post(ctx context.Context, draft Draft) (job.Job, error) {
	title := strings.TrimSpace(draft.Title)
	company := strings.TrimSpace(draft.Company)
	if title == "" || company == "" || draft.Reward <= 0 {
		return job.Job{}, ErrInvalidJob
	}
	if err := s.wait(ctx); err != nil {
		return job.Job{}, err
	}

	location := strings.TrimSpace(draft.Location)
	if location == "" {
		location = "Remote"
	}
	skills := make([]string, 0, len(draft.Skills))
	for _, skill := range draft.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}

	posted := s.store.Add(job.Job{
		Title:       title,
		Company:     company,
		Description: strings.TrimSpace(draft.Description),
		Location:    location,
		Type:        draft.Type,
		Reward:      draft.Reward,
		Deadline:    draft.Deadline,
		Skills:      skills,
	})
	s.log.Info().Int("job", posted.ID).Str("title", posted.Title).Msg("job posted")
	return posted, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
