package meanings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/tarot-today/internal/card"
)

func TestEveryCardHasMeaning(t *testing.T) {
	for _, c := range card.All() {
		m, err := For(c)
		require.NoError(t, err, c.Name)
		assert.NotEmpty(t, m.Upright, c.Name)
		assert.NotEmpty(t, m.Reversed, c.Name)
		assert.Equal(t, c.Type, m.Type, c.Name)
		assert.Equal(t, c.Suit, m.Suit, c.Name)
	}
}

func TestLookup(t *testing.T) {
	m, err := Lookup("The Fool")
	require.NoError(t, err)
	assert.Equal(t, "innocence, new beginnings, free spirit", m.Upright)
	assert.Equal(t, m.Upright, m.Text(false))
	assert.Equal(t, m.Reversed, m.Text(true))

	_, err = Lookup("The Jester")
	assert.ErrorIs(t, err, ErrNoMeaning)
}
