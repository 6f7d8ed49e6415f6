package storage

import "context"

// schema is the database DDL. The screens/media/cameras/rules tables are
// owned by the management app; they are created here too so a fresh
// development database works without it.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

-- Owned by the management app, read-only for this service
CREATE TABLE IF NOT EXISTS screens (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS media (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS screens_media (
    screen_id BIGINT NOT NULL REFERENCES screens(id),
    media_id TEXT NOT NULL REFERENCES media(id),
    display_order INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (screen_id, media_id)
);

CREATE TABLE IF NOT EXISTS cameras (
    id BIGSERIAL PRIMARY KEY,
    screen_id BIGINT NOT NULL REFERENCES screens(id),
    name TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cv_configs (
    camera_id BIGINT PRIMARY KEY REFERENCES cameras(id),
    frame_interval_ms INTEGER,
    enable_age BOOLEAN,
    enable_gender BOOLEAN,
    min_people_for_detection INTEGER,
    min_dwell_to_trigger_sec DOUBLE PRECISION,
    rearm_cooldown_sec INTEGER,
    extra_config JSONB
);

CREATE TABLE IF NOT EXISTS rules (
    id BIGSERIAL PRIMARY KEY,
    screen_id BIGINT REFERENCES screens(id), -- NULL = global
    name TEXT NOT NULL DEFAULT '',
    priority INTEGER NOT NULL DEFAULT 0,
    min_people INTEGER,
    max_people INTEGER,
    min_males INTEGER,
    max_males INTEGER,
    min_females INTEGER,
    max_females INTEGER,
    min_avg_age DOUBLE PRECISION,
    max_avg_age DOUBLE PRECISION,
    min_dwell_sec DOUBLE PRECISION,
    max_dwell_sec DOUBLE PRECISION,
    output_media_id TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_rules_screen_active ON rules(screen_id, is_active);

-- Written only by ingest, append-only
CREATE TABLE IF NOT EXISTS audience_profiles (
    id UUID PRIMARY KEY,
    screen_id BIGINT NOT NULL,
    camera_id BIGINT NOT NULL,
    people_count INTEGER NOT NULL DEFAULT 0,
    male_count INTEGER NOT NULL DEFAULT 0,
    female_count INTEGER NOT NULL DEFAULT 0,
    avg_age DOUBLE PRECISION NOT NULL DEFAULT 0,
    min_age INTEGER NOT NULL DEFAULT 0,
    max_age INTEGER NOT NULL DEFAULT 0,
    dwell_time_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
    raw_payload JSONB,
    snapshot_key TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_profiles_screen_created ON audience_profiles(screen_id, created_at DESC);

CREATE TABLE IF NOT EXISTS faces (
    id UUID PRIMARY KEY,
    profile_id UUID NOT NULL REFERENCES audience_profiles(id) ON DELETE CASCADE,
    external_id TEXT NOT NULL DEFAULT '',
    age INTEGER NOT NULL DEFAULT 0,
    gender TEXT NOT NULL DEFAULT '',
    dwell_time_sec DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_new BOOLEAN NOT NULL DEFAULT false,
    embedding vector(512),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_faces_profile ON faces(profile_id);
CREATE INDEX IF NOT EXISTS idx_faces_external ON faces(external_id);

CREATE TABLE IF NOT EXISTS triggers (
    id UUID PRIMARY KEY,
    screen_id BIGINT NOT NULL,
    media_id TEXT NOT NULL,
    rule_id BIGINT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    expires_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_triggers_screen_created ON triggers(screen_id, created_at DESC);

-- No unique constraint on (face_external_id, screen_id, rule_id): two
-- concurrent ingest calls can both pass the cooldown check and insert
-- duplicate rows. Readers take the newest row, so the duplicate is
-- harmless; at-most-once triggering is not a guarantee of this service.
CREATE TABLE IF NOT EXISTS face_trigger_history (
    id UUID PRIMARY KEY,
    face_external_id TEXT NOT NULL,
    screen_id BIGINT NOT NULL,
    rule_id BIGINT NOT NULL,
    triggered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fth_key ON face_trigger_history(face_external_id, screen_id, rule_id, triggered_at DESC);
`

// EnsureSchema applies the DDL. Safe to call on every boot.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}
