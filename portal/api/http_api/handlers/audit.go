package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/agridesk/consentd/portal/api/dto"
	cs "github.com/agridesk/consentd/portal/api/http_api/context_service"
	req "github.com/agridesk/consentd/portal/api/http_api/requests"
	"github.com/agridesk/consentd/portal/modules/auth"
)

// GetAuditEvents serves the audit trail from the configured backend,
// starting at the given offset. Admin only.
func (a *HTTPApp) GetAuditEvents(c echo.Context) error {
	stx := c.(*cs.ContextService)

	claims := stx.Claims()
	if claims == nil || claims.Role != auth.RoleAdmin {
		return stx.JsonError(http.StatusForbidden, errors.New("admin role required"))
	}

	formDTO := &AuditEventsDTO{}
	if err := stx.BindToDTO(&req.AuditEventsForm{}, formDTO); err != nil {
		return err
	}

	events, err := a.audit.Read(formDTO.Offset)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}

	return stx.Json(http.StatusOK, events)
}
