package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agridesk/consentd/auditlog"
	"github.com/agridesk/consentd/canvas"
	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/fsm/state_machines/consent_fsm"
	"github.com/agridesk/consentd/portal/modules/handles"
	"github.com/agridesk/consentd/portal/services/fill"
	"github.com/agridesk/consentd/portal/services/submission"
	"github.com/agridesk/consentd/portal/services/template"
	"github.com/agridesk/consentd/portal/types"
)

var ErrWorkflowNotFound = errors.New("consent workflow not found")

// Workflow is the context object of one open consent form session. All
// mutable state of the session lives here; access is serialized by mu.
// Fill and submit calls run without the lock held so the session stays
// interactable while a request is in flight.
type Workflow struct {
	mu sync.Mutex

	id            string
	applicationID string
	templateID    string
	actor         string

	fields types.ConsentFields
	canvas *canvas.Canvas
	fsm    *consent_fsm.ConsentFSM

	templateHandle *handles.Handle
	templateURL    string
	previewHandle  *handles.Handle

	previewPending  bool
	completePending bool
	closed          bool
}

// View is a read-only snapshot of a workflow for API responses.
type View struct {
	ID               string              `json:"id"`
	ApplicationID    string              `json:"applicationId"`
	State            string              `json:"state"`
	Fields           types.ConsentFields `json:"fields"`
	HasSignature     bool                `json:"hasSignature"`
	SignatureImage   string              `json:"signatureImage,omitempty"`
	TemplateHandleID string              `json:"templateHandleId,omitempty"`
	TemplateURL      string              `json:"templateUrl"`
	PreviewHandleID  string              `json:"previewHandleId,omitempty"`
}

func (w *Workflow) view() *View {
	v := &View{
		ID:             w.id,
		ApplicationID:  w.applicationID,
		State:          string(w.fsm.State()),
		Fields:         w.fields,
		HasSignature:   w.canvas.HasInk(),
		SignatureImage: w.canvas.Image(),
		TemplateURL:    w.templateURL,
	}
	if w.templateHandle != nil {
		v.TemplateHandleID = w.templateHandle.ID()
	}
	if w.previewHandle != nil {
		v.PreviewHandleID = w.previewHandle.ID()
	}
	return v
}

// WorkflowService hosts the open consent workflow instances.
type WorkflowService struct {
	mu        sync.Mutex
	instances map[string]*Workflow

	templates template.TemplateService
	filler    fill.Filler
	submitter submission.Submitter
	registry  *handles.Registry
	audit     auditlog.Log
	logger    common.Logger

	surfaceWidth  int
	surfaceHeight int
}

func NewWorkflowService(
	templates template.TemplateService,
	filler fill.Filler,
	submitter submission.Submitter,
	registry *handles.Registry,
	audit auditlog.Log,
	logger common.Logger,
	surfaceWidth, surfaceHeight int,
) *WorkflowService {
	return &WorkflowService{
		instances:     make(map[string]*Workflow),
		templates:     templates,
		filler:        filler,
		submitter:     submitter,
		registry:      registry,
		audit:         audit,
		logger:        logger,
		surfaceWidth:  surfaceWidth,
		surfaceHeight: surfaceHeight,
	}
}

// Open starts a consent workflow for an application on behalf of actor.
// The template is loaded eagerly; when loading fails the workflow still
// opens and the view carries the direct-download URL as a fallback.
func (s *WorkflowService) Open(applicationID, templateID, actor string) (*View, error) {
	w := &Workflow{
		id:            uuid.New().String(),
		applicationID: applicationID,
		templateID:    templateID,
		actor:         actor,
		canvas:        canvas.New(s.surfaceWidth, s.surfaceHeight),
		fsm:           consent_fsm.New(),
		templateURL:   s.templates.DownloadURL(templateID),
	}

	loaded, err := s.templates.LoadTemplate(templateID)
	if err != nil {
		s.logger.Log("failed to load template %s, falling back to %s: %v", templateID, w.templateURL, err)
	} else {
		w.templateHandle = loaded.Handle
	}

	s.mu.Lock()
	s.instances[w.id] = w
	s.mu.Unlock()

	s.appendAudit(auditlog.Event{
		Kind:          auditlog.KindWorkflowOpened,
		ApplicationID: applicationID,
		WorkflowID:    w.id,
		Actor:         actor,
	})

	return w.view(), nil
}

func (s *WorkflowService) get(workflowID string) (*Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.instances[workflowID]
	if !ok {
		return nil, ErrWorkflowNotFound
	}
	return w, nil
}

func (s *WorkflowService) Get(workflowID string) (*View, error) {
	w, err := s.get(workflowID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view(), nil
}

// Close releases the workflow's handles and drops the instance. A
// fill or submit response arriving afterwards sees the closed flag
// and leaves the instance alone.
func (s *WorkflowService) Close(workflowID string) error {
	w, err := s.get(workflowID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.closed = true
	if w.templateHandle != nil {
		w.templateHandle.Release()
		w.templateHandle = nil
	}
	if w.previewHandle != nil {
		w.previewHandle.Release()
		w.previewHandle = nil
	}
	applicationID := w.applicationID
	actor := w.actor
	w.mu.Unlock()

	s.mu.Lock()
	delete(s.instances, workflowID)
	s.mu.Unlock()

	s.appendAudit(auditlog.Event{
		Kind:          auditlog.KindWorkflowClosed,
		ApplicationID: applicationID,
		WorkflowID:    workflowID,
		Actor:         actor,
	})
	return nil
}

// UpdateFields replaces the consent fields. Any mutation re-enters the
// editing state; a stale preview handle is kept until the next preview
// supersedes it.
func (s *WorkflowService) UpdateFields(workflowID string, fields types.ConsentFields) (*View, error) {
	w, err := s.get(workflowID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, types.ErrWorkflowClosed
	}

	w.fields = fields
	if _, err := w.fsm.Do(consent_fsm.EventInputChanged); err != nil {
		return nil, err
	}

	s.appendAudit(auditlog.Event{
		Kind:          auditlog.KindFieldsUpdated,
		ApplicationID: w.applicationID,
		WorkflowID:    w.id,
		Actor:         w.actor,
	})
	return w.view(), nil
}

// Stroke actions accepted by ApplyStroke.
const (
	StrokeBegin  = "begin"
	StrokeExtend = "extend"
	StrokeEnd    = "end"
	StrokeLeave  = "leave"
	StrokeClear  = "clear"
)

// ApplyStroke routes one pointer action to the signature canvas. The
// point is required for begin/extend and ignored otherwise.
func (s *WorkflowService) ApplyStroke(workflowID, action string, p canvas.Point) (*View, error) {
	w, err := s.get(workflowID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, types.ErrWorkflowClosed
	}

	switch action {
	case StrokeBegin:
		w.canvas.BeginStroke(p)
	case StrokeExtend:
		w.canvas.ExtendStroke(p)
	case StrokeEnd:
		w.canvas.EndStroke()
	case StrokeLeave:
		w.canvas.PointerLeave()
	case StrokeClear:
		w.canvas.Clear()
	default:
		return nil, fmt.Errorf("unknown stroke action %q", action)
	}

	if _, err := w.fsm.Do(consent_fsm.EventInputChanged); err != nil {
		return nil, err
	}
	return w.view(), nil
}

// SetDisplaySize records the client's rendered canvas size so incoming
// points are scaled to the surface.
func (s *WorkflowService) SetDisplaySize(workflowID string, width, height float64) error {
	w, err := s.get(workflowID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return types.ErrWorkflowClosed
	}
	w.canvas.SetDisplaySize(width, height)
	return nil
}

// GeneratePreview validates the fields, runs the filler and registers
// the produced PDF behind a fresh handle. The previous preview handle
// is superseded only on success. The instance lock is not held during
// the fill call.
func (s *WorkflowService) GeneratePreview(ctx context.Context, workflowID string) (*View, error) {
	w, err := s.get(workflowID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, types.ErrWorkflowClosed
	}
	if w.previewPending {
		w.mu.Unlock()
		return nil, types.ErrRequestPending
	}
	if verr := w.fields.Validate(); verr != nil {
		w.mu.Unlock()
		return nil, verr
	}

	w.previewPending = true
	templateID := w.templateID
	fields := w.fields
	signature := ""
	if w.canvas.HasInk() {
		signature = w.canvas.Image()
	}
	w.mu.Unlock()

	data, fillErr := s.filler.Fill(ctx, templateID, fields, signature)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.previewPending = false

	if w.closed {
		// the session is gone; the produced blob is dropped unregistered
		return nil, types.ErrWorkflowClosed
	}
	if fillErr != nil {
		return nil, fillErr
	}

	if w.previewHandle != nil {
		w.previewHandle.Release()
	}
	w.previewHandle = s.registry.Acquire(data, "application/pdf")

	if _, err := w.fsm.Do(consent_fsm.EventPreviewGenerated); err != nil {
		return nil, err
	}

	s.appendAudit(auditlog.Event{
		Kind:          auditlog.KindPreviewGenerated,
		ApplicationID: w.applicationID,
		WorkflowID:    w.id,
		Actor:         w.actor,
	})
	return w.view(), nil
}

// Complete submits the consent form. It requires a generated preview,
// valid fields and a drawn signature, and issues exactly one
// persistence call per attempt. On success the workflow is closed; on
// failure it stays previewed so the user can retry.
func (s *WorkflowService) Complete(ctx context.Context, workflowID string) (*types.SubmissionRecord, error) {
	w, err := s.get(workflowID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, types.ErrWorkflowClosed
	}
	if w.completePending {
		w.mu.Unlock()
		return nil, types.ErrRequestPending
	}
	if !w.fsm.CanDo(consent_fsm.EventCompleted) {
		state := w.fsm.State()
		w.mu.Unlock()
		return nil, fmt.Errorf("cannot complete consent workflow from state %s", state)
	}

	verr := w.fields.Validate()
	if !w.canvas.HasInk() {
		if verr == nil {
			verr = &types.ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["signature"] = "signature is required"
	}
	if verr != nil {
		w.mu.Unlock()
		return nil, verr
	}

	w.completePending = true
	applicationID := w.applicationID
	fields := w.fields
	signature := w.canvas.Image()
	actor := w.actor
	w.mu.Unlock()

	record, submitErr := s.submitter.Submit(ctx, applicationID, fields, signature, actor)

	w.mu.Lock()
	w.completePending = false
	if w.closed {
		w.mu.Unlock()
		return nil, types.ErrWorkflowClosed
	}
	if submitErr != nil {
		w.mu.Unlock()
		return nil, submitErr
	}

	// The record is persisted. Input that arrived while the submission
	// was in flight may have moved the machine back to editing; it
	// cannot undo the submission, so the workflow closes either way.
	if _, err := w.fsm.Do(consent_fsm.EventCompleted); err != nil {
		s.logger.Log("workflow %s received input during submission, closing anyway", w.id)
	}
	w.mu.Unlock()

	if err := s.Close(workflowID); err != nil {
		s.logger.Log("failed to close completed workflow %s: %v", workflowID, err)
	}
	return record, nil
}

func (s *WorkflowService) appendAudit(event auditlog.Event) {
	if _, err := s.audit.Append(event); err != nil {
		s.logger.Log("failed to append audit event %s: %v", event.Kind, err)
	}
}
