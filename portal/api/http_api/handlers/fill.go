package handlers

import (
	"fmt"
	"net/http"

	dto "github.com/censync/go-dto"
	"github.com/censync/go-validator"
	"github.com/labstack/echo/v4"

	. "github.com/agridesk/consentd/portal/api/dto"
	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	req "github.com/agridesk/consentd/portal/api/http_api/requests"
	"github.com/agridesk/consentd/portal/types"
)

// FillConsentPDF fills a consent template with the supplied field
// values and streams the PDF back.
func (a *HTTPApp) FillConsentPDF(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.FillForm{}

	err := stx.Bind(request)

	if err != nil {
		return stx.JsonError(
			http.StatusBadRequest,
			fmt.Errorf("failed to read request body: %v", err),
		)
	}

	if err := validator.Validate(request); !err.IsEmpty() {
		return stx.JsonError(
			http.StatusBadRequest,
			err.Error(),
		)
	}

	formDTO := &FillDTO{}

	err = dto.RequestToDTO(formDTO, request)

	if err != nil {
		return stx.JsonError(
			http.StatusBadRequest,
			err,
		)
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

	data, err := a.filler.Fill(stx.Request().Context(), formDTO.TemplateID, fields, formDTO.Signature)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Binary(http.StatusOK, "application/pdf", data)
}
