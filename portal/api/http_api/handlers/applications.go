package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/agridesk/consentd/portal/api/dto"
	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	req "github.com/agridesk/consentd/portal/api/http_api/requests"
	"github.com/agridesk/consentd/portal/api/http_api/responses"
	"github.com/agridesk/consentd/portal/types"
)

func (a *HTTPApp) CreateApplication(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &CreateApplicationDTO{}
	if err := stx.BindToDTO(&req.CreateApplicationForm{}, formDTO); err != nil {
		return err
	}

	app, err := a.applications.Create(formDTO.Applicant)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, app)
}

func (a *HTTPApp) GetApplication(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &ApplicationIdDTO{}
	if err := stx.BindToDTO(&req.ApplicationIdForm{}, formDTO); err != nil {
		return err
	}

	app, err := a.applications.Get(formDTO.ApplicationID)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, app)
}

// SubmitDigitalSignature persists a consent form submitted directly
// against an application, outside of a workflow session.
func (a *HTTPApp) SubmitDigitalSignature(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &DigitalSignatureDTO{}
	if err := stx.BindToDTO(&req.DigitalSignatureForm{}, formDTO); err != nil {
		return err
	}

	fields := types.ConsentFields{
		Name:     formDTO.Name,
		Address:  formDTO.Address,
		FarmCode: formDTO.FarmCode,
		Email:    formDTO.Email,
	}
	if verr := fields.Validate(); verr != nil {
		return stx.JsonError(http.StatusBadRequest, verr)
	}

	record, err := a.submitter.Submit(stx.Request().Context(), formDTO.ApplicationID, fields, formDTO.Signature, stx.Actor())
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, &responses.SubmissionResponse{
		ApplicationID:        record.ApplicationID,
		ConsentFormCompleted: true,
	})
}
