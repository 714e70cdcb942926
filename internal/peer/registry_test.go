package peer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_UpsertAndSnapshot(t *testing.T) {
	r := NewRegistry()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	assert.True(t, r.Upsert("phone-b", "Pixel"))
	assert.True(t, r.Upsert("phone-a", ""))

	clock = clock.Add(time.Minute)
	assert.False(t, r.Upsert("phone-b", ""))

	nodes := r.Snapshot()
	assert.Len(t, nodes, 2)
	assert.Equal(t, "phone-a", nodes[0].ID)
	assert.Equal(t, "phone-b", nodes[1].ID)
	assert.Equal(t, "Pixel", nodes[1].Name, "empty name keeps the old one")
	assert.Equal(t, clock, nodes[1].LastSeen)

	nodes[0].Name = "mutated"
	assert.Equal(t, "", r.Snapshot()[0].Name)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Upsert("phone-a", "")

	assert.True(t, r.Has("phone-a"))
	assert.True(t, r.Remove("phone-a"))
	assert.False(t, r.Remove("phone-a"))
	assert.False(t, r.Has("phone-a"))
	assert.Equal(t, 0, r.Count())
}

func TestNode_DisplayName(t *testing.T) {
	assert.Equal(t, "Pixel 9", Node{ID: "AA", Name: "Pixel 9"}.DisplayName())
	assert.Equal(t, "AA", Node{ID: "AA"}.DisplayName())
}

func TestVendorLabel(t *testing.T) {
	assert.Equal(t, "Google EE:FF", vendorLabel(0x00E0, "AA:BB:CC:DD:EE:FF"))
	assert.Equal(t, "Samsung", vendorLabel(0x0075, "nocolons"))
	assert.Equal(t, "", vendorLabel(0xFFFF, "AA:BB:CC:DD:EE:FF"))
	assert.Equal(t, "Apple", LookupVendor(0x004C))
}
