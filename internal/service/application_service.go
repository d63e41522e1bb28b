package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
	"github.com/skillhub-io/skillhub-api/pkg/mailer"
)

type applicationRepository interface {
	Create(ctx context.Context, app *models.InstructorApplication) error
	FindByEmail(ctx context.Context, email string) (*models.InstructorApplication, error)
	UpdateStatusIfPending(ctx context.Context, email string, status models.ApplicationStatus) (*models.InstructorApplication, error)
}

type applicationUserRepository interface {
	UpdateRoleByEmail(ctx context.Context, email string, role models.UserRole) error
}

type applicationMailer interface {
	Send(ctx context.Context, channel string, params map[string]interface{}) error
}

// ApplicationConfig defines configuration for the instructor-application workflow.
type ApplicationConfig struct {
	FrontendURL   string
	DirectorEmail string
}

// ApplicationService coordinates the instructor-application approval workflow:
// applicant submission, director decision through emailed links, and role
// promotion.
type ApplicationService struct {
	repo      applicationRepository
	users     applicationUserRepository
	mail      applicationMailer
	validator *validator.Validate
	logger    *zap.Logger
	config    ApplicationConfig
}

// NewApplicationService constructs an ApplicationService instance.
func NewApplicationService(repo applicationRepository, users applicationUserRepository, mail applicationMailer, validate *validator.Validate, logger *zap.Logger, config ApplicationConfig) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, users: users, mail: mail, validator: validate, logger: logger, config: config}
}

// submitFieldNames maps struct fields to their wire names for the aggregated
// missing-field message.
var submitFieldNames = map[string]string{
	"Name":           "name",
	"Email":          "email",
	"Phone":          "phone",
	"ExpertiseArea":  "expertiseArea",
	"Experience":     "experience",
	"WhyTeach":       "whyTeach",
	"Qualifications": "qualifications",
	"Availability":   "availability",
}

// Submit validates the applicant profile, persists a pending application and
// notifies the director. Every missing required field is reported in one
// message. A failed director email is logged and swallowed: the submission
// stands, the director just is not notified.
func (s *ApplicationService) Submit(ctx context.Context, req models.SubmitApplicationRequest) (*models.InstructorApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var missing []string
			for _, fe := range verrs {
				if fe.Tag() != "required" {
					continue
				}
				name := submitFieldNames[fe.StructField()]
				if name == "" {
					name = fe.StructField()
				}
				missing = append(missing, name)
			}
			if len(missing) > 0 {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	app := &models.InstructorApplication{
		Name:           req.Name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		ExpertiseArea:  req.ExpertiseArea,
		Experience:     req.Experience,
		WhyTeach:       req.WhyTeach,
		Qualifications: req.Qualifications,
		Availability:   req.Availability,
		Status:         models.ApplicationPending,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}

	if err := s.mail.Send(ctx, mailer.ChannelDirector, s.directorParams(app)); err != nil {
		s.logger.Warn("failed to notify director of new application",
			zap.String("email", app.Email),
			zap.Error(err),
		)
	}

	return app, nil
}

// CheckStatus returns a public status summary for an applicant email.
func (s *ApplicationService) CheckStatus(ctx context.Context, email string) (*models.ApplicationStatusSummary, error) {
	if strings.TrimSpace(email) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}

	app, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check application status")
	}

	return &models.ApplicationStatusSummary{
		Name:          app.Name,
		Email:         app.Email,
		Status:        app.Status,
		ExpertiseArea: app.ExpertiseArea,
		Experience:    app.Experience,
	}, nil
}

// Confirm finalizes a pending application. The conditional update gated on
// the pending status is the only concurrency guard: one of two same-moment
// confirms wins, the other sees not-found. An accepted application promotes
// the user's role best-effort; the decision email gets one retry and its
// outcome is reported alongside the decision, never instead of it.
func (s *ApplicationService) Confirm(ctx context.Context, req models.ConfirmApplicationRequest) (*models.ConfirmApplicationResult, error) {
	if req.Action == "" || req.Email == "" || req.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required parameters: action, email, and name are required")
	}
	if req.Action != models.ActionAccept && req.Action != models.ActionDecline {
		return nil, appErrors.Clone(appErrors.ErrValidation, `invalid action: must be either "accept" or "decline"`)
	}

	status := models.ApplicationRejected
	channel := mailer.ChannelDecline
	if req.Action == models.ActionAccept {
		status = models.ApplicationApproved
		channel = mailer.ChannelAccept
	}

	app, err := s.repo.UpdateStatusIfPending(ctx, req.Email, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found or already processed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to process application")
	}

	if req.Action == models.ActionAccept {
		if err := s.users.UpdateRoleByEmail(ctx, app.Email, models.RoleInstructor); err != nil {
			// Decision is recorded either way; the inconsistency is
			// surfaced for the operator to reconcile.
			s.logger.Warn("failed to promote user role after acceptance",
				zap.String("email", app.Email),
				zap.Error(err),
			)
		}
	}

	result := &models.ConfirmApplicationResult{
		Name:   app.Name,
		Email:  app.Email,
		Status: app.Status,
	}

	params := s.decisionParams(app)
	if err := s.mail.Send(ctx, channel, params); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) && typed.Code == appErrors.ErrEmailNotConfigured.Code {
			return nil, err
		}
		s.logger.Warn("decision email failed, retrying once",
			zap.String("email", app.Email),
			zap.String("channel", channel),
			zap.Error(err),
		)
		if retryErr := s.mail.Send(ctx, channel, params); retryErr != nil {
			s.logger.Error("decision email failed on retry",
				zap.String("email", app.Email),
				zap.String("channel", channel),
				zap.Error(retryErr),
			)
			result.EmailError = retryErr.Error()
			return result, nil
		}
	}

	result.EmailSent = true
	return result, nil
}

func (s *ApplicationService) directorParams(app *models.InstructorApplication) map[string]interface{} {
	return map[string]interface{}{
		"to_email":       s.config.DirectorEmail,
		"application_id": app.ID,
		"name":           app.Name,
		"email":          app.Email,
		"phone":          app.Phone,
		"expertiseArea":  app.ExpertiseArea,
		"experience":     app.Experience,
		"whyTeach":       app.WhyTeach,
		"qualifications": app.Qualifications,
		"availability":   app.Availability,
		"accept_url":     s.decisionURL(models.ActionAccept, app),
		"decline_url":    s.decisionURL(models.ActionDecline, app),
	}
}

func (s *ApplicationService) decisionParams(app *models.InstructorApplication) map[string]interface{} {
	return map[string]interface{}{
		"name":           app.Name,
		"email":          app.Email,
		"frontend_url":   s.config.FrontendURL,
		"application_id": app.ID,
		"status":         string(app.Status),
		"expertise_area": app.ExpertiseArea,
		"experience":     app.Experience,
		"login_url":      s.config.FrontendURL + "/login",
		"why_teach":      app.WhyTeach,
		"qualifications": app.Qualifications,
		"availability":   app.Availability,
	}
}

func (s *ApplicationService) decisionURL(action string, app *models.InstructorApplication) string {
	query := url.Values{}
	query.Set("action", action)
	query.Set("email", app.Email)
	query.Set("name", app.Name)
	return fmt.Sprintf("%s/instructor-acceptance?%s", s.config.FrontendURL, query.Encode())
}
