package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewExistingRecord(t *testing.T) {
	r := NewExistingRecord[SkillID]("skill-1")
	assert.Equal(t, SkillID("skill-1"), r.ID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
}
