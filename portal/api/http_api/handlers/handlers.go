package handlers

import (
	"errors"
	"net/http"

	"github.com/agridesk/consentd/auditlog"
	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/modules/handles"
	apprepo "github.com/agridesk/consentd/portal/repositories/application"
	"github.com/agridesk/consentd/portal/services"
	appservice "github.com/agridesk/consentd/portal/services/application"
	"github.com/agridesk/consentd/portal/services/fill"
	"github.com/agridesk/consentd/portal/services/submission"
	"github.com/agridesk/consentd/portal/services/template"
	"github.com/agridesk/consentd/portal/services/workflow"
	"github.com/agridesk/consentd/portal/types"
)

type HTTPApp struct {
	logger       common.Logger
	users        *auth.UserStore
	tokens       *auth.TokenSource
	templates    template.TemplateService
	filler       fill.Filler
	applications appservice.ApplicationService
	submitter    submission.Submitter
	workflows    *workflow.WorkflowService
	registry     *handles.Registry
	audit        auditlog.Log
}

func NewHTTPApp(sp *services.ServiceProvider, logger common.Logger) *HTTPApp {
	return &HTTPApp{
		logger:       logger,
		users:        sp.GetUserStore(),
		tokens:       sp.GetTokenSource(),
		templates:    sp.GetTemplateService(),
		filler:       sp.GetFiller(),
		applications: sp.GetApplicationService(),
		submitter:    sp.GetSubmitter(),
		workflows:    sp.GetWorkflowService(),
		registry:     sp.GetHandleRegistry(),
		audit:        sp.GetAuditLog(),
	}
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case types.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, workflow.ErrWorkflowNotFound), errors.Is(err, apprepo.ErrNotFound),
		errors.Is(err, types.ErrTemplateLoadFailed):
		return http.StatusNotFound
	case errors.Is(err, types.ErrWorkflowClosed), errors.Is(err, handles.ErrReleased):
		return http.StatusGone
	case errors.Is(err, types.ErrRequestPending):
		return http.StatusConflict
	case errors.Is(err, types.ErrFillFailed), errors.Is(err, types.ErrSubmissionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
