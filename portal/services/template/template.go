package template

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agridesk/consentd/portal/modules/handles"
	"github.com/agridesk/consentd/portal/types"
)

const pdfContentType = "application/pdf"

// TemplateService serves consent form templates from a directory on disk.
// Loaded templates are registered as handles so clients can view them
// in-place; the download URL is always available as a fallback.
type TemplateService interface {
	LoadTemplate(templateID string) (*LoadedTemplate, error)
	Open(templateID string) ([]byte, error)
	DownloadURL(templateID string) string
}

// LoadedTemplate is a template registered for in-place viewing.
type LoadedTemplate struct {
	TemplateID  string
	Handle      *handles.Handle
	DownloadURL string
}

type BaseTemplateService struct {
	templatesDir string
	registry     *handles.Registry
}

func NewTemplateService(templatesDir string, registry *handles.Registry) *BaseTemplateService {
	return &BaseTemplateService{
		templatesDir: templatesDir,
		registry:     registry,
	}
}

// Open reads the raw template bytes. The template ID is reduced to its
// base name so a crafted ID cannot escape the templates directory.
func (s *BaseTemplateService) Open(templateID string) ([]byte, error) {
	name := filepath.Base(templateID)
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: invalid template id %q", types.ErrTemplateLoadFailed, templateID)
	}

	data, err := os.ReadFile(filepath.Join(s.templatesDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrTemplateLoadFailed, err)
	}
	return data, nil
}

func (s *BaseTemplateService) LoadTemplate(templateID string) (*LoadedTemplate, error) {
	data, err := s.Open(templateID)
	if err != nil {
		return nil, err
	}

	return &LoadedTemplate{
		TemplateID:  templateID,
		Handle:      s.registry.Acquire(data, pdfContentType),
		DownloadURL: s.DownloadURL(templateID),
	}, nil
}

func (s *BaseTemplateService) DownloadURL(templateID string) string {
	return fmt.Sprintf("/api/download-template/%s", filepath.Base(templateID))
}
