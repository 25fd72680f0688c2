package application

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agridesk/consentd/portal/repositories/application"
	"github.com/agridesk/consentd/portal/types"
)

const DefaultCacheSize = 256

// ApplicationService is the read/write surface for grant applications.
// Reads go through an LRU cache; anything that mutates an application
// drops the cached copy so the next read reflects stored state. Callers
// always receive their own copy of a record, so mutating a returned
// application (or failing to save it) never leaks into the cache or
// into concurrent readers.
type ApplicationService interface {
	Create(applicant string) (*types.Application, error)
	Get(applicationID string) (*types.Application, error)
	Save(app *types.Application) error
	Invalidate(applicationID string)
}

type BaseApplicationService struct {
	repo  application.ApplicationRepo
	cache *lru.Cache[string, *types.Application]
}

func NewApplicationService(repo application.ApplicationRepo, cacheSize int) (*BaseApplicationService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, *types.Application](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init application cache: %w", err)
	}

	return &BaseApplicationService{
		repo:  repo,
		cache: cache,
	}, nil
}

func (s *BaseApplicationService) Create(applicant string) (*types.Application, error) {
	app, err := s.repo.Create(applicant)
	if err != nil {
		return nil, err
	}
	s.cache.Add(app.ID, cloneApplication(app))
	return app, nil
}

func (s *BaseApplicationService) Get(applicationID string) (*types.Application, error) {
	if app, ok := s.cache.Get(applicationID); ok {
		return cloneApplication(app), nil
	}

	app, err := s.repo.Get(applicationID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(applicationID, app)
	return cloneApplication(app), nil
}

func (s *BaseApplicationService) Save(app *types.Application) error {
	if err := s.repo.Save(app); err != nil {
		return err
	}
	s.cache.Remove(app.ID)
	return nil
}

func (s *BaseApplicationService) Invalidate(applicationID string) {
	s.cache.Remove(applicationID)
}

func cloneApplication(app *types.Application) *types.Application {
	cp := *app
	return &cp
}
