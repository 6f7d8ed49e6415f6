package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/vigil/internal/config"
	"github.com/your-org/vigil/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Screens ---

func (s *PostgresStore) ScreenExists(ctx context.Context, screenID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM screens WHERE id = $1)`, screenID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check screen: %w", err)
	}
	return exists, nil
}

// --- Audience profiles & faces ---

func (s *PostgresStore) CreateAudienceProfile(ctx context.Context, p *models.AudienceProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audience_profiles (id, screen_id, camera_id, people_count, male_count, female_count, avg_age, min_age, max_age, dwell_time_sec, raw_payload, snapshot_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.ScreenID, p.CameraID, p.PeopleCount, p.MaleCount, p.FemaleCount,
		p.AvgAge, p.MinAge, p.MaxAge, p.DwellTimeSec, p.RawPayload, p.SnapshotKey, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audience profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateFace(ctx context.Context, f *models.Face) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	var vec *pgvector.Vector
	if len(f.Embedding) > 0 {
		v := pgvector.NewVector(f.Embedding)
		vec = &v
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO faces (id, profile_id, external_id, age, gender, dwell_time_sec, is_new, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.ProfileID, f.ExternalID, f.Age, f.Gender, f.DwellTimeSec, f.IsNew, vec, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create face: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAudienceProfile(ctx context.Context, id uuid.UUID) (*models.AudienceProfile, error) {
	p := &models.AudienceProfile{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, screen_id, camera_id, people_count, male_count, female_count, avg_age, min_age, max_age, dwell_time_sec, raw_payload, snapshot_key, created_at
		 FROM audience_profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.ScreenID, &p.CameraID, &p.PeopleCount, &p.MaleCount, &p.FemaleCount,
		&p.AvgAge, &p.MinAge, &p.MaxAge, &p.DwellTimeSec, &p.RawPayload, &p.SnapshotKey, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get audience profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListFaces(ctx context.Context, profileID uuid.UUID) ([]models.Face, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, profile_id, external_id, age, gender, dwell_time_sec, is_new, created_at
		 FROM faces WHERE profile_id = $1 ORDER BY created_at`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list faces: %w", err)
	}
	defer rows.Close()

	var faces []models.Face
	for rows.Next() {
		var f models.Face
		if err := rows.Scan(&f.ID, &f.ProfileID, &f.ExternalID, &f.Age, &f.Gender,
			&f.DwellTimeSec, &f.IsNew, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan face: %w", err)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

// --- Rules ---

// ListActiveRules returns active rules visible to a screen (global plus
// screen-specific), priority descending. Equal priorities tie-break on
// rule id ascending so the order is deterministic.
func (s *PostgresStore) ListActiveRules(ctx context.Context, screenID int64) ([]models.Rule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, screen_id, name, priority, min_people, max_people, min_males, max_males, min_females, max_females, min_avg_age, max_avg_age, min_dwell_sec, max_dwell_sec, output_media_id, is_active, created_at
		 FROM rules
		 WHERE is_active AND (screen_id IS NULL OR screen_id = $1)
		 ORDER BY priority DESC, id ASC`, screenID)
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.ScreenID, &r.Name, &r.Priority,
			&r.MinPeople, &r.MaxPeople, &r.MinMales, &r.MaxMales, &r.MinFemales, &r.MaxFemales,
			&r.MinAvgAge, &r.MaxAvgAge, &r.MinDwellSec, &r.MaxDwellSec,
			&r.OutputMediaID, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// --- Triggers & cooldown ledger ---

// LatestTrigger returns the most recently created trigger row for the
// screen, regardless of expiry. Callers decide relevance by timestamp.
func (s *PostgresStore) LatestTrigger(ctx context.Context, screenID int64) (*models.Trigger, error) {
	tr := &models.Trigger{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, screen_id, media_id, rule_id, active, created_at, expires_at
		 FROM triggers WHERE screen_id = $1 ORDER BY created_at DESC LIMIT 1`, screenID,
	).Scan(&tr.ID, &tr.ScreenID, &tr.MediaID, &tr.RuleID, &tr.Active, &tr.CreatedAt, &tr.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest trigger: %w", err)
	}
	return tr, nil
}

func (s *PostgresStore) ListTriggers(ctx context.Context, screenID int64, limit int) ([]models.Trigger, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, screen_id, media_id, rule_id, active, created_at, expires_at
		 FROM triggers WHERE screen_id = $1 ORDER BY created_at DESC LIMIT $2`, screenID, limit)
	if err != nil {
		return nil, fmt.Errorf("list triggers: %w", err)
	}
	defer rows.Close()

	var triggers []models.Trigger
	for rows.Next() {
		var tr models.Trigger
		if err := rows.Scan(&tr.ID, &tr.ScreenID, &tr.MediaID, &tr.RuleID, &tr.Active, &tr.CreatedAt, &tr.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		triggers = append(triggers, tr)
	}
	return triggers, nil
}

// CreateTriggerWithHistory inserts a trigger and, when history is non-nil,
// its cooldown ledger row in one transaction so a storage failure leaves
// neither behind.
func (s *PostgresStore) CreateTriggerWithHistory(ctx context.Context, tr *models.Trigger, hist *models.FaceTriggerHistory) error {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	tr.CreatedAt = time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin trigger tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO triggers (id, screen_id, media_id, rule_id, active, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tr.ID, tr.ScreenID, tr.MediaID, tr.RuleID, tr.Active, tr.CreatedAt, tr.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create trigger: %w", err)
	}

	if hist != nil {
		if hist.ID == uuid.Nil {
			hist.ID = uuid.New()
		}
		hist.TriggeredAt = tr.CreatedAt
		_, err = tx.Exec(ctx,
			`INSERT INTO face_trigger_history (id, face_external_id, screen_id, rule_id, triggered_at, expires_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			hist.ID, hist.FaceExternalID, hist.ScreenID, hist.RuleID, hist.TriggeredAt, hist.ExpiresAt)
		if err != nil {
			return fmt.Errorf("create face trigger history: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LatestFaceTrigger returns the newest cooldown ledger row for
// (face, screen, rule), or nil when the face has never triggered the rule.
func (s *PostgresStore) LatestFaceTrigger(ctx context.Context, faceExternalID string, screenID, ruleID int64) (*models.FaceTriggerHistory, error) {
	h := &models.FaceTriggerHistory{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, face_external_id, screen_id, rule_id, triggered_at, expires_at
		 FROM face_trigger_history
		 WHERE face_external_id = $1 AND screen_id = $2 AND rule_id = $3
		 ORDER BY triggered_at DESC LIMIT 1`,
		faceExternalID, screenID, ruleID,
	).Scan(&h.ID, &h.FaceExternalID, &h.ScreenID, &h.RuleID, &h.TriggeredAt, &h.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest face trigger: %w", err)
	}
	return h, nil
}

// --- Cameras & CV configs ---

func (s *PostgresStore) ListActiveCameras(ctx context.Context, screenID int64) ([]models.Camera, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, screen_id, name, is_active, created_at
		 FROM cameras WHERE screen_id = $1 AND is_active ORDER BY id`, screenID)
	if err != nil {
		return nil, fmt.Errorf("list active cameras: %w", err)
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		var cam models.Camera
		if err := rows.Scan(&cam.ID, &cam.ScreenID, &cam.Name, &cam.IsActive, &cam.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan camera: %w", err)
		}
		cameras = append(cameras, cam)
	}
	return cameras, nil
}

func (s *PostgresStore) GetCVConfig(ctx context.Context, cameraID int64) (*models.CVConfig, error) {
	cfg := &models.CVConfig{}
	err := s.pool.QueryRow(ctx,
		`SELECT camera_id, frame_interval_ms, enable_age, enable_gender, min_people_for_detection, min_dwell_to_trigger_sec, rearm_cooldown_sec, extra_config
		 FROM cv_configs WHERE camera_id = $1`, cameraID,
	).Scan(&cfg.CameraID, &cfg.FrameIntervalMS, &cfg.EnableAge, &cfg.EnableGender,
		&cfg.MinPeopleForDetection, &cfg.MinDwellToTriggerSec, &cfg.RearmCooldownSec, &cfg.ExtraConfig)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cv config: %w", err)
	}
	return cfg, nil
}

// --- Scheduled playlist ---

func (s *PostgresStore) ListScheduledMedia(ctx context.Context, screenID int64) ([]models.ScheduledItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT media_id, display_order FROM screens_media
		 WHERE screen_id = $1 ORDER BY display_order ASC`, screenID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled media: %w", err)
	}
	defer rows.Close()

	var items []models.ScheduledItem
	for rows.Next() {
		var it models.ScheduledItem
		if err := rows.Scan(&it.MediaID, &it.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan scheduled item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// --- Housekeeping (used by cmd/housekeeper only, never the request path) ---

func (s *PostgresStore) DeleteExpiredTriggers(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM triggers WHERE expires_at IS NOT NULL AND expires_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete expired triggers: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) DeleteExpiredFaceHistory(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM face_trigger_history WHERE expires_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete expired face history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) DeleteOldProfiles(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM audience_profiles WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete old profiles: %w", err)
	}
	return tag.RowsAffected(), nil
}
