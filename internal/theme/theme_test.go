package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert.Equal(t, "Dracula", Get("dracula").Name)
	assert.Equal(t, "catppuccin-mocha", Get("no-such-theme").Key)
}

func TestNext_CyclesThroughAll(t *testing.T) {
	all := All()
	key := all[0].Key
	seen := map[string]bool{}
	for range all {
		seen[key] = true
		key = Next(key).Key
	}

	assert.Len(t, seen, len(all))
	assert.Equal(t, all[0].Key, key)
}

func TestStyles(t *testing.T) {
	s := Get("dracula").Styles()

	assert.Equal(t, Get("dracula").Accent, s.Title.GetForeground())
}
