package types

import (
	"regexp"
	"strings"
	"time"
)

// ConsentFields holds the typed values of the consent declaration. The
// fields are frozen at submission; until then they are mutated freely by
// the workflow owner.
type ConsentFields struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	FarmCode string `json:"farmCode"`
	Email    string `json:"email"`
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the required-field constraints and the email format.
// A nil return means the fields may be sent to the filler or persisted.
func (f ConsentFields) Validate() *ValidationError {
	v := &ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(f.Name) == "" {
		v.Fields["name"] = "name is required"
	}
	if strings.TrimSpace(f.Address) == "" {
		v.Fields["address"] = "address is required"
	}
	if strings.TrimSpace(f.FarmCode) == "" {
		v.Fields["farmCode"] = "farm code is required"
	}
	if !emailRe.MatchString(f.Email) {
		v.Fields["email"] = "email address is not valid"
	}
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// SubmissionRecord is the persisted outcome of a completed consent form.
// It is associated 1:1 (latest-wins) with a grant application.
type SubmissionRecord struct {
	ApplicationID    string    `json:"applicationId"`
	DigitalSignature string    `json:"digitalSignature"`
	ConsentName      string    `json:"consentName"`
	ConsentAddress   string    `json:"consentAddress"`
	ConsentFarmCode  string    `json:"consentFarmCode"`
	ConsentEmail     string    `json:"consentEmail"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// Application is a grant application record as seen by the portal.
type Application struct {
	ID                   string    `json:"id"`
	Applicant            string    `json:"applicant"`
	Status               string    `json:"status"`
	ConsentName          string    `json:"consentName,omitempty"`
	ConsentAddress       string    `json:"consentAddress,omitempty"`
	ConsentFarmCode      string    `json:"consentFarmCode,omitempty"`
	ConsentEmail         string    `json:"consentEmail,omitempty"`
	DigitalSignature     string    `json:"digitalSignature,omitempty"`
	ConsentFormCompleted bool      `json:"consentFormCompleted"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

const (
	ApplicationStatusDraft     = "draft"
	ApplicationStatusSubmitted = "submitted"
)
