package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agridesk/consentd/portal/modules/state"
	"github.com/agridesk/consentd/portal/types"
)

const applicationsKeyPrefix = "applications"

var ErrNotFound = errors.New("application not found")

type ApplicationRepo interface {
	Create(applicant string) (*types.Application, error)
	Get(applicationID string) (*types.Application, error)
	Save(app *types.Application) error
}

type BaseApplicationRepo struct {
	state state.State
}

func NewApplicationRepo(st state.State) *BaseApplicationRepo {
	return &BaseApplicationRepo{state: st}
}

func (r *BaseApplicationRepo) Create(applicant string) (*types.Application, error) {
	now := time.Now()
	app := &types.Application{
		ID:        uuid.New().String(),
		Applicant: applicant,
		Status:    types.ApplicationStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Save(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *BaseApplicationRepo) Get(applicationID string) (*types.Application, error) {
	key := state.MakeCompositeKey(applicationsKeyPrefix, applicationID)

	bz, err := r.state.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", applicationID, err)
	}
	if bz == nil {
		return nil, ErrNotFound
	}

	var app types.Application
	if err := json.Unmarshal(bz, &app); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application: %w", err)
	}
	return &app, nil
}

func (r *BaseApplicationRepo) Save(app *types.Application) error {
	app.UpdatedAt = time.Now()

	bz, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("failed to marshal application: %w", err)
	}

	key := state.MakeCompositeKey(applicationsKeyPrefix, app.ID)
	if err := r.state.Set(key, bz); err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}
	return nil
}
