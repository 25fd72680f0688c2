package http_api

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"

	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/portal/api/http_api/handlers"
	"github.com/agridesk/consentd/portal/api/http_api/router"
	"github.com/agridesk/consentd/portal/config"
	"github.com/agridesk/consentd/portal/services"
)

type RESTApiProvider struct {
	config       *config.HttpApiConfig
	echoInstance *echo.Echo
}

func (p *RESTApiProvider) NewServer(cfg *config.Config, sp *services.ServiceProvider, logger common.Logger) error {
	p.config = cfg.HttpApiConfig

	p.echoInstance = echo.New()

	p.echoInstance.HideBanner = true
	p.echoInstance.Debug = p.config.Debug

	p.echoInstance.HTTPErrorHandler = customHTTPErrorHandler

	// Middlewares

	p.echoInstance.Use(echo_middleware.Logger())

	p.echoInstance.Use(contextServiceMiddleware)

	router.SetRouter(p.echoInstance, jwtAuthMiddleware(sp.GetTokenSource()), handlers.NewHTTPApp(sp, logger))

	return nil
}

// Handler returns the configured echo instance.
func (p *RESTApiProvider) Handler() *echo.Echo {
	return p.echoInstance
}

func (p *RESTApiProvider) Start() error {
	return p.echoInstance.Start(fmt.Sprintf("%s:%d", p.config.Host, p.config.Port))
}

func (p *RESTApiProvider) Stop(ctx context.Context) error {
	return p.echoInstance.Shutdown(ctx)
}
