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
	"github.com/agridesk/consentd/portal/api/http_api/responses"
)

func (a *HTTPApp) Login(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.LoginForm{}

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

	formDTO := &LoginDTO{}

	err = dto.RequestToDTO(formDTO, request)

	if err != nil {
		return stx.JsonError(
			http.StatusBadRequest,
			err,
		)
	}

	user, err := a.users.Authenticate(formDTO.Email, formDTO.Password)
	if err != nil {
		return stx.JsonError(
			http.StatusUnauthorized,
			err,
		)
	}

	token, err := a.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return stx.JsonError(
			http.StatusInternalServerError,
			fmt.Errorf("failed to issue token: %v", err),
		)
	}

	return stx.Json(
		http.StatusOK,
		&responses.LoginResponse{Token: token},
	)
}
