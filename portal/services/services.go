package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agridesk/consentd/auditlog"
	"github.com/agridesk/consentd/common"
	"github.com/agridesk/consentd/portal/config"
	"github.com/agridesk/consentd/portal/modules/auth"
	"github.com/agridesk/consentd/portal/modules/handles"
	"github.com/agridesk/consentd/portal/modules/state"
	apprepo "github.com/agridesk/consentd/portal/repositories/application"
	subrepo "github.com/agridesk/consentd/portal/repositories/submission"
	appservice "github.com/agridesk/consentd/portal/services/application"
	"github.com/agridesk/consentd/portal/services/fill"
	"github.com/agridesk/consentd/portal/services/submission"
	"github.com/agridesk/consentd/portal/services/template"
	"github.com/agridesk/consentd/portal/services/workflow"
)

func parseKafkaAuthCredentials(creds string) (*auditlog.KafkaAuthCredentials, error) {
	credsSplit := strings.SplitN(creds, ":", 2)
	if len(credsSplit) == 1 {
		return nil, fmt.Errorf("failed to parse credentials")
	}
	return &auditlog.KafkaAuthCredentials{
		Username: credsSplit[0],
		Password: credsSplit[1],
	}, nil
}

func initAuditLog(ctx context.Context, cfg *config.AuditConfig) (auditlog.Log, error) {
	switch cfg.Backend {
	case config.AuditBackendFile:
		return auditlog.InitFileLog(cfg.FilePath, cfg.LockPath)
	case config.AuditBackendKafka:
		tlsConfig, err := auditlog.GetTLSConfig(cfg.KafkaTrustStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create tls config: %w", err)
		}
		producerCreds, err := parseKafkaAuthCredentials(cfg.ProducerCredentials)
		if err != nil {
			return nil, err
		}
		consumerCreds, err := parseKafkaAuthCredentials(cfg.ConsumerCredentials)
		if err != nil {
			return nil, err
		}
		return auditlog.NewKafkaLog(ctx, cfg.KafkaEndpoint, cfg.KafkaTopic, tlsConfig, producerCreds, consumerCreds)
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}

// InitServices wires the full service graph from the configuration.
func InitServices(ctx context.Context, cfg *config.Config, logger common.Logger) (*ServiceProvider, error) {
	p := &ServiceProvider{}

	stg, err := state.NewLevelDBState(cfg.StateDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init state: %w", err)
	}
	p.state = stg

	p.registry = handles.NewRegistry()
	p.tokenSource = auth.NewTokenSource(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	p.userStore = auth.NewUserStore(stg)

	p.audit, err = initAuditLog(ctx, cfg.AuditConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init audit log: %w", err)
	}

	p.templates = template.NewTemplateService(cfg.TemplatesDir, p.registry)

	switch cfg.FillConfig.Mode {
	case config.FillModeLocal:
		p.filler = fill.NewRenderer(p.templates)
	case config.FillModeRemote:
		p.filler = fill.NewHTTPFiller(cfg.FillConfig.Endpoint, cfg.FillConfig.Token, nil)
	default:
		return nil, fmt.Errorf("unknown fill mode %q", cfg.FillConfig.Mode)
	}

	p.applications, err = appservice.NewApplicationService(apprepo.NewApplicationRepo(stg), cfg.AppCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init application service: %w", err)
	}

	p.submitter = submission.NewSubmissionService(subrepo.NewSubmissionRepo(stg), p.applications, p.audit)

	p.workflows = workflow.NewWorkflowService(
		p.templates,
		p.filler,
		p.submitter,
		p.registry,
		p.audit,
		logger,
		cfg.CanvasConfig.SurfaceWidth,
		cfg.CanvasConfig.SurfaceHeight,
	)

	return p, nil
}

// Close releases the provider's long-lived resources.
func (p *ServiceProvider) Close() error {
	if err := p.audit.Close(); err != nil {
		return fmt.Errorf("failed to close audit log: %w", err)
	}
	if err := p.state.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	return nil
}
