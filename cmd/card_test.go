package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/tarot-today/internal/card"
)

func TestWriteCards(t *testing.T) {
	cards := card.MajorArcana()[:2]

	tests := []struct {
		name   string
		output string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "table",
			output: "table",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "ID")
				assert.Contains(t, out, "The Magician")
				assert.Contains(t, out, "the-fool")
			},
		},
		{
			name:   "json",
			output: "json",
			check: func(t *testing.T, out string) {
				var got []card.Card
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				assert.Equal(t, cards, got)
			},
		},
		{
			name:   "yaml",
			output: "yaml",
			check: func(t *testing.T, out string) {
				var got []card.Card
				require.NoError(t, yaml.Unmarshal([]byte(out), &got))
				assert.Equal(t, cards, got)
				assert.Contains(t, out, "name: The Fool")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCards(&buf, cards, tt.output))
			tt.check(t, buf.String())
		})
	}

	assert.Error(t, writeCards(&bytes.Buffer{}, cards, "xml"))
}

func TestLookupCard(t *testing.T) {
	c, err := lookupCard("22")
	require.NoError(t, err)
	assert.Equal(t, "Ace of Cups", c.Name)

	c, err = lookupCard("Queen of Swords")
	require.NoError(t, err)
	assert.Equal(t, card.Swords, c.Suit)

	_, err = lookupCard("The Jester")
	assert.ErrorIs(t, err, card.ErrCardNotFound)
}

func TestStdRNG(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := stdRNG{}.Intn(78)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 78)
	}
}
