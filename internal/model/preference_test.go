package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       PriceRange
		wantErr bool
	}{
		{"valid", PriceRange{Min: 0, Max: 50}, false},
		{"point range", PriceRange{Min: 20, Max: 20}, false},
		{"negative min", PriceRange{Min: -5, Max: 50}, true},
		{"negative max", PriceRange{Min: 0, Max: -1}, true},
		{"inverted", PriceRange{Min: 60, Max: 40}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPriceRangeContains(t *testing.T) {
	r := PriceRange{Min: 10, Max: 50}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(50))
	assert.True(t, r.Contains(30))
	assert.False(t, r.Contains(9.99))
	assert.False(t, r.Contains(50.01))
}

func TestPreferenceProfileValidate(t *testing.T) {
	t.Run("valid explicit profile", func(t *testing.T) {
		p := PreferenceProfile{
			PreferredTypes: []string{"red"},
			PriceRange:     &PriceRange{Min: 0, Max: 50},
			Flavor:         FlavorProfile{3, 2, 3, 3},
		}
		assert.NoError(t, p.Validate())
	})

	t.Run("bad flavor fails fast", func(t *testing.T) {
		p := PreferenceProfile{Flavor: FlavorProfile{0, 2, 3, 3}}
		assert.Error(t, p.Validate())
	})

	t.Run("bad price range fails fast", func(t *testing.T) {
		p := PreferenceProfile{
			Flavor:     FlavorProfile{3, 2, 3, 3},
			PriceRange: &PriceRange{Min: -1, Max: 10},
		}
		assert.Error(t, p.Validate())
	})
}

func TestJournalEntrySignals(t *testing.T) {
	assert.True(t, JournalEntry{Rating: 4}.Positive())
	assert.True(t, JournalEntry{Rating: 5}.Positive())
	assert.False(t, JournalEntry{Rating: 3}.Positive())
	assert.True(t, JournalEntry{Rating: 2}.Negative())
	assert.True(t, JournalEntry{Rating: 1}.Negative())
	assert.False(t, JournalEntry{Rating: 3}.Negative())

	assert.Error(t, JournalEntry{Rating: 0}.Validate())
	assert.Error(t, JournalEntry{Rating: 6}.Validate())
	assert.NoError(t, JournalEntry{Rating: 3}.Validate())
}
