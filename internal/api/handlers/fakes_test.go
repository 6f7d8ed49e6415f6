package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/vigil/internal/models"
)

// fakeStore is an in-memory stand-in for storage.PostgresStore covering
// the read/write surfaces the handlers use.
type fakeStore struct {
	screens   map[int64]bool
	cameras   []models.Camera
	cvConfigs map[int64]*models.CVConfig
	rules     []models.Rule
	scheduled []models.ScheduledItem

	profiles []*models.AudienceProfile
	faces    []models.Face
	triggers []models.Trigger
	history  []models.FaceTriggerHistory

	profileErr error
	faceErr    error
	triggerErr error
	rulesErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		screens:   make(map[int64]bool),
		cvConfigs: make(map[int64]*models.CVConfig),
	}
}

func (s *fakeStore) CreateAudienceProfile(_ context.Context, p *models.AudienceProfile) error {
	if s.profileErr != nil {
		return s.profileErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	s.profiles = append(s.profiles, p)
	return nil
}

func (s *fakeStore) CreateFace(_ context.Context, f *models.Face) error {
	if s.faceErr != nil {
		return s.faceErr
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	s.faces = append(s.faces, *f)
	return nil
}

func (s *fakeStore) GetAudienceProfile(_ context.Context, id uuid.UUID) (*models.AudienceProfile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListActiveRules(_ context.Context, screenID int64) ([]models.Rule, error) {
	if s.rulesErr != nil {
		return nil, s.rulesErr
	}
	var out []models.Rule
	for _, r := range s.rules {
		if !r.IsActive {
			continue
		}
		if r.ScreenID == nil || *r.ScreenID == screenID {
			out = append(out, r)
		}
	}
	// Callers configure s.rules pre-sorted (priority desc, id asc), like
	// the SQL ORDER BY does.
	return out, nil
}

func (s *fakeStore) LatestFaceTrigger(_ context.Context, faceExternalID string, screenID, ruleID int64) (*models.FaceTriggerHistory, error) {
	for i := len(s.history) - 1; i >= 0; i-- {
		h := s.history[i]
		if h.FaceExternalID == faceExternalID && h.ScreenID == screenID && h.RuleID == ruleID {
			return &h, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateTriggerWithHistory(_ context.Context, tr *models.Trigger, hist *models.FaceTriggerHistory) error {
	if s.triggerErr != nil {
		return s.triggerErr
	}
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	tr.CreatedAt = time.Now()
	s.triggers = append(s.triggers, *tr)
	if hist != nil {
		if hist.ID == uuid.Nil {
			hist.ID = uuid.New()
		}
		hist.TriggeredAt = tr.CreatedAt
		s.history = append(s.history, *hist)
	}
	return nil
}

func (s *fakeStore) LatestTrigger(_ context.Context, screenID int64) (*models.Trigger, error) {
	for i := len(s.triggers) - 1; i >= 0; i-- {
		if s.triggers[i].ScreenID == screenID {
			tr := s.triggers[i]
			return &tr, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListTriggers(_ context.Context, screenID int64, limit int) ([]models.Trigger, error) {
	var out []models.Trigger
	for i := len(s.triggers) - 1; i >= 0 && len(out) < limit; i-- {
		if s.triggers[i].ScreenID == screenID {
			out = append(out, s.triggers[i])
		}
	}
	return out, nil
}

func (s *fakeStore) ScreenExists(_ context.Context, screenID int64) (bool, error) {
	return s.screens[screenID], nil
}

func (s *fakeStore) ListActiveCameras(_ context.Context, screenID int64) ([]models.Camera, error) {
	var out []models.Camera
	for _, cam := range s.cameras {
		if cam.ScreenID == screenID && cam.IsActive {
			out = append(out, cam)
		}
	}
	return out, nil
}

func (s *fakeStore) GetCVConfig(_ context.Context, cameraID int64) (*models.CVConfig, error) {
	return s.cvConfigs[cameraID], nil
}

func (s *fakeStore) ListScheduledMedia(_ context.Context, screenID int64) ([]models.ScheduledItem, error) {
	return s.scheduled, nil
}
