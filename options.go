package chainassure

import (
	"log/slog"
	"time"
)

// config holds the shared settings of the flow components.
type config struct {
	clock               Clock
	log                 *slog.Logger
	switchPollInterval  time.Duration
	switchPollAttempts  int
	receiptPollInterval time.Duration
}

func defaultConfig() config {
	return config{
		clock:               SystemClock(),
		log:                 slog.Default(),
		switchPollInterval:  500 * time.Millisecond,
		switchPollAttempts:  10,
		receiptPollInterval: 2 * time.Second,
	}
}

// Option configures a flow component.
type Option func(*config)

// WithClock sets the clock used by polling loops.
//
// Default: the system wall clock.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the structured logger.
//
// Default: slog.Default()
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithSwitchPollInterval sets the delay between active-chain reads
// after a switch request is accepted.
//
// Default: 500ms
func WithSwitchPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.switchPollInterval = d
	}
}

// WithSwitchPollAttempts sets how many active-chain reads are made
// before a switch is reported as timed out.
//
// Default: 10
func WithSwitchPollAttempts(n int) Option {
	return func(c *config) {
		c.switchPollAttempts = n
	}
}

// WithReceiptPollInterval sets the delay between receipt lookups while
// a transaction is pending. Confirmation has no fixed upper bound, so
// there is no attempt cap here.
//
// Default: 2s
func WithReceiptPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.receiptPollInterval = d
	}
}
