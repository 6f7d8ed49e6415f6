package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/vigil/internal/models"
)

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func TestMatches(t *testing.T) {
	obs := &models.AudienceProfile{
		PeopleCount:  3,
		MaleCount:    1,
		FemaleCount:  2,
		AvgAge:       31.5,
		DwellTimeSec: 6,
	}

	tests := []struct {
		name string
		rule models.Rule
		want bool
	}{
		{
			name: "no bounds matches anything",
			rule: models.Rule{},
			want: true,
		},
		{
			name: "all bounds satisfied",
			rule: models.Rule{MinPeople: iptr(3), MinFemales: iptr(2), MaxAvgAge: fptr(40)},
			want: true,
		},
		{
			name: "min bound is inclusive",
			rule: models.Rule{MinPeople: iptr(3)},
			want: true,
		},
		{
			name: "max bound is inclusive",
			rule: models.Rule{MaxPeople: iptr(3)},
			want: true,
		},
		{
			name: "people below min",
			rule: models.Rule{MinPeople: iptr(4)},
			want: false,
		},
		{
			name: "people above max",
			rule: models.Rule{MaxPeople: iptr(2)},
			want: false,
		},
		{
			name: "female count below min",
			rule: models.Rule{MinFemales: iptr(3)},
			want: false,
		},
		{
			name: "male count above max",
			rule: models.Rule{MaxMales: iptr(0)},
			want: false,
		},
		{
			name: "avg age below min",
			rule: models.Rule{MinAvgAge: fptr(35)},
			want: false,
		},
		{
			name: "dwell below min",
			rule: models.Rule{MinDwellSec: fptr(10)},
			want: false,
		},
		{
			name: "one failing bound rejects despite others passing",
			rule: models.Rule{MinPeople: iptr(1), MaxFemales: iptr(1)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(&tt.rule, obs))
		})
	}
}

func TestFirstMatch(t *testing.T) {
	obs := &models.AudienceProfile{PeopleCount: 3, FemaleCount: 2}

	t.Run("highest priority full match wins", func(t *testing.T) {
		// Store order: priority descending, id ascending.
		rs := []models.Rule{
			{ID: 1, Priority: 20, MinPeople: iptr(10)}, // bounds fail
			{ID: 2, Priority: 10, MinPeople: iptr(3), MinFemales: iptr(2)},
			{ID: 3, Priority: 5},
		}
		got := FirstMatch(rs, obs)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.ID)
	})

	t.Run("equal priority ties break on store order", func(t *testing.T) {
		rs := []models.Rule{
			{ID: 4, Priority: 10},
			{ID: 9, Priority: 10},
		}
		got := FirstMatch(rs, obs)
		require.NotNil(t, got)
		assert.Equal(t, int64(4), got.ID, "lower rule id must win at equal priority")
	})

	t.Run("no rules", func(t *testing.T) {
		assert.Nil(t, FirstMatch(nil, obs))
	})

	t.Run("no match", func(t *testing.T) {
		rs := []models.Rule{{ID: 1, MinPeople: iptr(100)}}
		assert.Nil(t, FirstMatch(rs, obs))
	})
}

func TestSelectTriggeringFace(t *testing.T) {
	tests := []struct {
		name   string
		faces  []models.Face
		wantID string // expected external id, "" = nil expected
	}{
		{
			name:   "no faces",
			faces:  nil,
			wantID: "",
		},
		{
			name: "only faces without external id",
			faces: []models.Face{
				{IsNew: true},
				{},
			},
			wantID: "",
		},
		{
			name: "new face preferred over known face",
			faces: []models.Face{
				{ExternalID: "known-1"},
				{ExternalID: "new-1", IsNew: true},
			},
			wantID: "new-1",
		},
		{
			name: "falls back to first face with an id",
			faces: []models.Face{
				{IsNew: true}, // new but no id, ineligible
				{ExternalID: "known-1"},
				{ExternalID: "known-2"},
			},
			wantID: "known-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTriggeringFace(tt.faces)
			if tt.wantID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ExternalID)
		})
	}
}
