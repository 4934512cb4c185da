package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestMapNamesEmptyQueryReturnsPool(t *testing.T) {
	assert.Equal(t, MapPool, SuggestMapNames(""))
}

func TestSuggestMapNamesMatchesCaseInsensitively(t *testing.T) {
	names := SuggestMapNames("nuke")
	assert.Contains(t, names, "Nuke")
}

func TestSuggestMapNamesPartial(t *testing.T) {
	names := SuggestMapNames("an")
	assert.Contains(t, names, "Ancient")
	assert.Contains(t, names, "Anubis")
}

func TestSuggestMapNamesNoMatch(t *testing.T) {
	assert.Empty(t, SuggestMapNames("zzzzzz"))
}
