package gormstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestNoteSchemaConstraints(t *testing.T) {
	sch, err := schema.Parse(&noteRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	checks := sch.ParseCheckConstraints()
	require.Contains(t, checks, "notes_published_at_chk")
	assert.Equal(t, "(status = 'published') = (published_at IS NOT NULL)", checks["notes_published_at_chk"].Constraint)
	assert.Contains(t, checks, "notes_status_chk")

	reviewer := sch.Relationships.Relations["Reviewer"]
	require.NotNil(t, reviewer)
	c := reviewer.ParseConstraint()
	require.NotNil(t, c)
	assert.Equal(t, "SET NULL", c.OnDelete)

	owner := sch.Relationships.Relations["Owner"].ParseConstraint()
	require.NotNil(t, owner)
	assert.Equal(t, "CASCADE", owner.OnDelete)
}
