package sound

import (
	"time"

	"github.com/milk9111/soundpool/common"
)

const (
	defaultCapacity = 16
	defaultTickRate = 60
)

type Config struct {
	// Capacity bounds the one-shot pool. Loop slots do not count against it.
	Capacity int
	// PersistAcrossReload keeps channels, loop slots and pending requests
	// alive through SceneReloaded.
	PersistAcrossReload bool
	// TickRate is the number of Update calls per simulated second.
	TickRate int
	Listener common.Vec3
}

func DefaultConfig() Config {
	return Config{
		Capacity: defaultCapacity,
		TickRate: defaultTickRate,
	}
}

func (c Config) normalized() Config {
	if c.Capacity <= 0 {
		c.Capacity = 1
	}
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	return c
}

// TickStep is the simulated time covered by one Update.
func (c Config) TickStep() time.Duration {
	c = c.normalized()
	return time.Second / time.Duration(c.TickRate)
}
