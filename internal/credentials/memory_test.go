package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreNormalizesToken(t *testing.T) {
	for _, in := range []string{"abc", "Bearer abc", " Bearer abc  "} {
		s := NewMemoryStore()
		s.Save(in)
		token, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, "Bearer abc", token, in)
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	s.Clear()

	s.Save("abc")
	s.SaveUserID("user-1")
	s.SaveLayoutExpanded(true)
	s.Clear()

	_, ok := s.Get()
	assert.False(t, ok)
	_, ok = s.UserID()
	assert.False(t, ok)
	assert.True(t, s.LayoutExpanded())
}

func TestMemoryStoreEmptyValues(t *testing.T) {
	s := NewMemoryStore()
	s.Save("   ")
	_, ok := s.Get()
	assert.False(t, ok)

	assert.False(t, s.LayoutExpanded())
	s.SaveLayoutExpanded(false)
	assert.False(t, s.LayoutExpanded())
}
