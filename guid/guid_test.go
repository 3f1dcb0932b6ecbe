// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package guid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdKindClassification(t *testing.T) {
	assert.True(t, EntityIdSpdpBuiltinParticipantWriter.IsWriter())
	assert.True(t, EntityIdSpdpBuiltinParticipantWriter.IsBuiltin())
	assert.True(t, EntityIdSpdpBuiltinParticipantReader.IsReader())
	assert.False(t, EntityIdParticipant.IsWriter())
	assert.False(t, EntityIdParticipant.IsReader())
}

func TestGuidEquality(t *testing.T) {
	prefix := NewGuidPrefix()
	g1 := New(prefix, EntityIdSedpBuiltinPublicationsWriter)
	g2 := New(prefix, EntityIdSedpBuiltinPublicationsWriter)
	assert.Equal(t, g1, g2)

	g3 := New(prefix, EntityIdSedpBuiltinPublicationsReader)
	assert.NotEqual(t, g1, g3)
}

func TestNewGuidPrefixDiverges(t *testing.T) {
	p1 := NewGuidPrefix()
	p2 := NewGuidPrefix()
	assert.NotEqual(t, p1, p2, "two freshly minted prefixes must not collide")
}

func TestEntityIdAllocatorMonotonic(t *testing.T) {
	var alloc EntityIdAllocator
	a := alloc.Next(EntityKindUserWriterWithKey)
	b := alloc.Next(EntityKindUserWriterWithKey)
	require.NotEqual(t, a, b)
	assert.Equal(t, EntityKindUserWriterWithKey, a.Kind())
	assert.Equal(t, EntityKindUserWriterWithKey, b.Kind())
}
