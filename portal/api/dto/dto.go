package dto

// This package contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to the service layer

type LoginDTO struct {
	Email    string
	Password string
}

type CreateApplicationDTO struct {
	Applicant string
}

type ApplicationIdDTO struct {
	ApplicationID string
}

type TemplateIdDTO struct {
	TemplateID string
}

type HandleIdDTO struct {
	HandleID string
}

type WorkflowIdDTO struct {
	WorkflowID string
}

type OpenWorkflowDTO struct {
	ApplicationID string
	TemplateID    string
}

type ConsentFieldsDTO struct {
	WorkflowID string
	Name       string
	Address    string
	FarmCode   string
	Email      string
}

type StrokeDTO struct {
	WorkflowID string
	Action     string
	X          float64
	Y          float64
}

type DisplaySizeDTO struct {
	WorkflowID string
	Width      float64
	Height     float64
}

type FillDTO struct {
	TemplateID string
	Name       string
	Address    string
	FarmCode   string
	Email      string
	Signature  string
}

type AuditEventsDTO struct {
	Offset uint64
}

type DigitalSignatureDTO struct {
	ApplicationID string
	Signature     string
	Name          string
	Address       string
	FarmCode      string
	Email         string
}
