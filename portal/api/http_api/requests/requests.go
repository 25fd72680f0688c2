package requests

type LoginForm struct {
	Email    string `json:"email" validate:"attr=email,min=3"`
	Password string `json:"password" validate:"attr=password,min=1"`
}

type CreateApplicationForm struct {
	Applicant string `json:"applicant" validate:"attr=applicant,min=1"`
}

type ApplicationIdForm struct {
	ApplicationID string `param:"applicationID" json:"applicationID"`
}

type TemplateIdForm struct {
	TemplateID string `param:"templateID" json:"templateID"`
}

type HandleIdForm struct {
	HandleID string `param:"handleID" json:"handleID"`
}

type WorkflowIdForm struct {
	WorkflowID string `param:"workflowID" json:"workflowID"`
}

type OpenWorkflowForm struct {
	ApplicationID string `json:"applicationId" validate:"attr=applicationId,min=1"`
	TemplateID    string `json:"templateId" validate:"attr=templateId,min=1"`
}

type ConsentFieldsForm struct {
	WorkflowID string `param:"workflowID" json:"workflowID"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	FarmCode   string `json:"farmCode"`
	Email      string `json:"email"`
}

type StrokeForm struct {
	WorkflowID string  `param:"workflowID" json:"workflowID"`
	Action     string  `json:"action" validate:"attr=action,min=3"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type DisplaySizeForm struct {
	WorkflowID string  `param:"workflowID" json:"workflowID"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

type FillForm struct {
	TemplateID string `json:"templateId" validate:"attr=templateId,min=1"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	FarmCode   string `json:"farmCode"`
	Email      string `json:"email"`
	Signature  string `json:"signature,omitempty"`
}

type AuditEventsForm struct {
	Offset uint64 `query:"offset" json:"offset"`
}

type DigitalSignatureForm struct {
	ApplicationID string `param:"applicationID" json:"applicationID"`
	Signature     string `json:"signature" validate:"attr=signature,min=1"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	FarmCode      string `json:"farmCode"`
	Email         string `json:"email"`
}
