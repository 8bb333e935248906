package editsender

import (
	"github.com/pkg/errors"

	"github.com/linchenxuan/voxnet/network/packet"
)

// DefaultMaxPendingMessages bounds the pre-server backlog when the caller
// does not say otherwise.
const DefaultMaxPendingMessages = 100

// minPacketSize is the smallest usable edit packet: header, sequence,
// timestamp, and one minimal octal-code+colour triple.
const minPacketSize = 2 + packet.SequenceSize + packet.TimestampSize + 4

// Config tunes the edit sender. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// MaxPacketSize caps a batched edit packet. It may be lowered below
	// packet.MaxPacketSize to leave room for tunnelling wrappers.
	MaxPacketSize int `yaml:"maxPacketSize"`
	// MaxPendingMessages bounds the combined pre-server backlog; zero
	// disables buffering entirely (serverless edits drop).
	MaxPendingMessages int `yaml:"maxPendingMessages"`
	// ShouldSend gates every public entry point; false quiesces the sender
	// during disconnects.
	ShouldSend bool `yaml:"shouldSend"`
}

// DefaultConfig returns the sender defaults.
func DefaultConfig() Config {
	return Config{
		MaxPacketSize:      packet.MaxPacketSize,
		MaxPendingMessages: DefaultMaxPendingMessages,
		ShouldSend:         true,
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.MaxPacketSize < minPacketSize || c.MaxPacketSize > packet.MaxPacketSize {
		return errors.Errorf("max packet size must be within [%d, %d], got %d",
			minPacketSize, packet.MaxPacketSize, c.MaxPacketSize)
	}
	if c.MaxPendingMessages < 0 {
		return errors.Errorf("max pending messages must not be negative, got %d", c.MaxPendingMessages)
	}
	return nil
}
