package contract

import (
	"testing"

	"github.com/planhorizon/stockcast/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainClassLabel(t *testing.T) {
	for _, class := range schema.AllClassifications {
		assert.Equal(t, string(class), GetPlainClassLabel(class))
	}
}

func TestGetColorClassLabel(t *testing.T) {
	// Colored labels must still contain the plain text so CSV/JSON parity
	// checks and grepping terminal output keep working.
	for _, class := range schema.AllClassifications {
		assert.Contains(t, GetColorClassLabel(class), string(class))
	}
}

func TestMatchesEntity(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		patterns []string
		want     bool
	}{
		{"no patterns matches everything", "SKU1@DC1", nil, true},
		{"substring match", "SKU1@DC1", []string{"@DC1"}, true},
		{"substring miss", "SKU1@DC1", []string{"@DC2"}, false},
		{"glob match", "SKU1@DC1", []string{"SKU?@DC1"}, true},
		{"glob miss", "SKU10@DC1", []string{"SKU?@DC1"}, false},
		{"second pattern matches", "SKU2@DC2", []string{"@DC1", "SKU2*"}, true},
		{"blank patterns are skipped", "SKU1@DC1", []string{" ", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesEntity(tt.entityID, tt.patterns))
		})
	}
}

func TestTruncateEntityID(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		maxWidth int
		want     string
	}{
		{"short id untouched", "SKU1@DC1", 20, "SKU1@DC1"},
		{"long id keeps suffix", "VERYLONGSKUNAME@WAREHOUSE1", 12, "...AREHOUSE1"},
		{"tiny width untouched", "SKU1@DC1", 3, "SKU1@DC1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateEntityID(tt.entityID, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
