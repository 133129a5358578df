package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryGuardAcquireAndDuplicate(t *testing.T) {
	g := newDeliveryGuard(time.Minute)

	assert.True(t, g.tryAcquire("acme/widgets#7@abc123"))
	assert.False(t, g.tryAcquire("acme/widgets#7@abc123"))
	assert.True(t, g.tryAcquire("acme/widgets#7@def456"))
}

func TestDeliveryGuardExpiry(t *testing.T) {
	g := newDeliveryGuard(time.Minute)
	current := time.Now()
	g.now = func() time.Time { return current }

	assert.True(t, g.tryAcquire("k"))
	assert.False(t, g.tryAcquire("k"))

	current = current.Add(61 * time.Second)
	assert.True(t, g.tryAcquire("k"))
}

func TestDeliveryGuardRelease(t *testing.T) {
	g := newDeliveryGuard(time.Minute)

	assert.True(t, g.tryAcquire("k"))
	g.release("k")
	assert.True(t, g.tryAcquire("k"))
}

func TestDeliveryGuardDisabled(t *testing.T) {
	g := newDeliveryGuard(0)

	assert.True(t, g.tryAcquire("k"))
	assert.True(t, g.tryAcquire("k"))
}
