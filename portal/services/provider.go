package services

import (
	"github.com/agridesk/consentd/auditlog"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/modules/handles"
	"github.com/agridesk/consentd/portal/modules/state"
	appservice "github.com/agridesk/consentd/portal/services/application"
	"github.com/agridesk/consentd/portal/services/fill"
	"github.com/agridesk/consentd/portal/services/submission"
	"github.com/agridesk/consentd/portal/services/template"
	"github.com/agridesk/consentd/portal/services/workflow"
)

// ServiceProvider carries the wired service graph for the API layer.
type ServiceProvider struct {
	state        state.State
	registry     *handles.Registry
	tokenSource  *auth.TokenSource
	userStore    *auth.UserStore
	audit        auditlog.Log
	templates    template.TemplateService
	filler       fill.Filler
	applications appservice.ApplicationService
	submitter    submission.Submitter
	workflows    *workflow.WorkflowService
}

func (p *ServiceProvider) GetState() state.State {
	return p.state
}

func (p *ServiceProvider) GetHandleRegistry() *handles.Registry {
	return p.registry
}

func (p *ServiceProvider) GetTokenSource() *auth.TokenSource {
	return p.tokenSource
}

func (p *ServiceProvider) GetUserStore() *auth.UserStore {
	return p.userStore
}

func (p *ServiceProvider) GetAuditLog() auditlog.Log {
	return p.audit
}

func (p *ServiceProvider) GetTemplateService() template.TemplateService {
	return p.templates
}

func (p *ServiceProvider) GetFiller() fill.Filler {
	return p.filler
}

func (p *ServiceProvider) GetApplicationService() appservice.ApplicationService {
	return p.applications
}

func (p *ServiceProvider) GetSubmitter() submission.Submitter {
	return p.submitter
}

func (p *ServiceProvider) GetWorkflowService() *workflow.WorkflowService {
	return p.workflows
}
