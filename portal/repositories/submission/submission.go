package submission

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agridesk/consentd/portal/modules/state"
	"github.com/agridesk/consentd/portal/types"
)

const submissionsKeyPrefix = "submissions"

var ErrNotFound = errors.New("submission not found")

// SubmissionRepo persists consent submissions, one per application
// (latest-wins: a later completion overwrites the stored record).
type SubmissionRepo interface {
	Save(record *types.SubmissionRecord) error
	GetByApplicationID(applicationID string) (*types.SubmissionRecord, error)
}

type BaseSubmissionRepo struct {
	state state.State
}

func NewSubmissionRepo(st state.State) *BaseSubmissionRepo {
	return &BaseSubmissionRepo{state: st}
}

func (r *BaseSubmissionRepo) Save(record *types.SubmissionRecord) error {
	bz, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	key := state.MakeCompositeKey(submissionsKeyPrefix, record.ApplicationID)
	if err := r.state.Set(key, bz); err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

func (r *BaseSubmissionRepo) GetByApplicationID(applicationID string) (*types.SubmissionRecord, error) {
	key := state.MakeCompositeKey(submissionsKeyPrefix, applicationID)

	bz, err := r.state.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission for application %s: %w", applicationID, err)
	}
	if bz == nil {
		return nil, ErrNotFound
	}

	var record types.SubmissionRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return &record, nil
}
