package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agridesk/consentd/canvas"
	. "github.com/agridesk/consentd/portal/api/dto"
	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	req "github.com/agridesk/consentd/portal/api/http_api/requests"
	"github.com/agridesk/consentd/portal/types"
)

func (a *HTTPApp) OpenWorkflow(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &OpenWorkflowDTO{}
	if err := stx.BindToDTO(&req.OpenWorkflowForm{}, formDTO); err != nil {
		return err
	}

	if _, err := a.applications.Get(formDTO.ApplicationID); err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	view, err := a.workflows.Open(formDTO.ApplicationID, formDTO.TemplateID, stx.Actor())
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, view)
}

func (a *HTTPApp) GetWorkflow(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &WorkflowIdDTO{}
	if err := stx.BindToDTO(&req.WorkflowIdForm{}, formDTO); err != nil {
		return err
	}

	view, err := a.workflows.Get(formDTO.WorkflowID)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, view)
}

func (a *HTTPApp) CloseWorkflow(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &WorkflowIdDTO{}
	if err := stx.BindToDTO(&req.WorkflowIdForm{}, formDTO); err != nil {
		return err
	}

	if err := a.workflows.Close(formDTO.WorkflowID); err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.JsonEmpty(http.StatusOK)
}

func (a *HTTPApp) UpdateWorkflowFields(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &ConsentFieldsDTO{}
	if err := stx.BindToDTO(&req.ConsentFieldsForm{}, formDTO); err != nil {
		return err
	}

	view, err := a.workflows.UpdateFields(formDTO.WorkflowID, types.ConsentFields{
		Name:     formDTO.Name,
		Address:  formDTO.Address,
		FarmCode: formDTO.FarmCode,
		Email:    formDTO.Email,
	})
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, view)
}

func (a *HTTPApp) ApplyWorkflowStroke(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &StrokeDTO{}
	if err := stx.BindToDTO(&req.StrokeForm{}, formDTO); err != nil {
		return err
	}

	view, err := a.workflows.ApplyStroke(formDTO.WorkflowID, formDTO.Action, canvas.Point{
		X: formDTO.X,
		Y: formDTO.Y,
	})
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, view)
}

func (a *HTTPApp) SetWorkflowDisplaySize(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &DisplaySizeDTO{}
	if err := stx.BindToDTO(&req.DisplaySizeForm{}, formDTO); err != nil {
		return err
	}

	if err := a.workflows.SetDisplaySize(formDTO.WorkflowID, formDTO.Width, formDTO.Height); err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.JsonEmpty(http.StatusOK)
}

func (a *HTTPApp) GenerateWorkflowPreview(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &WorkflowIdDTO{}
	if err := stx.BindToDTO(&req.WorkflowIdForm{}, formDTO); err != nil {
		return err
	}

	view, err := a.workflows.GeneratePreview(stx.Request().Context(), formDTO.WorkflowID)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, view)
}

func (a *HTTPApp) CompleteWorkflow(c echo.Context) error {
	stx := c.(*cs.ContextService)

	formDTO := &WorkflowIdDTO{}
	if err := stx.BindToDTO(&req.WorkflowIdForm{}, formDTO); err != nil {
		return err
	}

	record, err := a.workflows.Complete(stx.Request().Context(), formDTO.WorkflowID)
	if err != nil {
		return stx.JsonError(errorStatus(err), err)
	}

	return stx.Json(http.StatusOK, record)
}
