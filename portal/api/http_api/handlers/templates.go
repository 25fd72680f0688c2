package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/agridesk/consentd/portal/api/dto"
	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	req "github.com/agridesk/consentd/portal/api/http_api/requests"
)

// DownloadTemplate serves the raw template asset. This is the public
// fallback link used when in-place template loading fails.
func (a *HTTPApp) DownloadTemplate(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &TemplateIdDTO{}
	if err := stx.BindToDTO(&req.TemplateIdForm{}, formDTO); err != nil {
		return err
	}

	data, err := a.templates.Open(formDTO.TemplateID)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Binary(http.StatusOK, "application/pdf", data)
}

func (a *HTTPApp) GetHandle(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &HandleIdDTO{}
	if err := stx.BindToDTO(&req.HandleIdForm{}, formDTO); err != nil {
		return err
	}

	h, ok := a.registry.Get(formDTO.HandleID)
	if !ok {
		return stx.JsonEmpty(http.StatusGone)
	}

	data, err := h.Bytes()
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Binary(http.StatusOK, h.ContentType(), data)
}
