package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/agridesk/consentd/auditlog"
	"github.com/agridesk/consentd/portal/repositories/submission"
	appservice "github.com/agridesk/consentd/portal/services/application"
	"github.com/agridesk/consentd/portal/types"
)

// Submitter persists a completed consent form against its application.
type Submitter interface {
	Submit(ctx context.Context, applicationID string, fields types.ConsentFields, signature, actor string) (*types.SubmissionRecord, error)
}

type SubmissionService struct {
	repo  submission.SubmissionRepo
	apps  appservice.ApplicationService
	audit auditlog.Log
}

func NewSubmissionService(repo submission.SubmissionRepo, apps appservice.ApplicationService, audit auditlog.Log) *SubmissionService {
	return &SubmissionService{
		repo:  repo,
		apps:  apps,
		audit: audit,
	}
}

// Submit stores the submission record, copies the consent data onto the
// application verbatim and marks the consent form as completed. The
// application is mutated on a private copy, so a failed save leaves
// readers seeing the pre-submission record. The cached view is dropped
// so reads see the submitted state.
func (s *SubmissionService) Submit(ctx context.Context, applicationID string, fields types.ConsentFields, signature, actor string) (*types.SubmissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSubmissionFailed, err)
	}

	app, err := s.apps.Get(applicationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSubmissionFailed, err)
	}

	record := &types.SubmissionRecord{
		ApplicationID:    applicationID,
		DigitalSignature: signature,
		ConsentName:      fields.Name,
		ConsentAddress:   fields.Address,
		ConsentFarmCode:  fields.FarmCode,
		ConsentEmail:     fields.Email,
		SubmittedAt:      time.Now(),
	}
	if err := s.repo.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSubmissionFailed, err)
	}

	app.ConsentName = fields.Name
	app.ConsentAddress = fields.Address
	app.ConsentFarmCode = fields.FarmCode
	app.ConsentEmail = fields.Email
	app.DigitalSignature = signature
	app.ConsentFormCompleted = true
	app.Status = types.ApplicationStatusSubmitted

	if err := s.apps.Save(app); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSubmissionFailed, err)
	}
	s.apps.Invalidate(applicationID)

	if _, err := s.audit.Append(auditlog.Event{
		Kind:          auditlog.KindConsentSubmitted,
		ApplicationID: applicationID,
		Actor:         actor,
	}); err != nil {
		return nil, fmt.Errorf("%w: failed to append audit event: %v", types.ErrSubmissionFailed, err)
	}

	return record, nil
}
