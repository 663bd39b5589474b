package at

import (
	"context"
	"time"
)

// PowerCycler power-cycles the physical modem. Implementations typically
// toggle a PWRKEY or RESET GPIO line. It is optional: a nil PowerCycler
// disables the retry-with-power-cycle behaviour of Open and the controller
// instead simply returns an error after exhausting sync attempts.
type PowerCycler interface {
	PowerCycle(ctx context.Context) error
}

// LifecycleConfig configures Open.
type LifecycleConfig struct {
	// SyncRetries is the number of "AT" probes sent, 500ms apart, before a
	// bring-up attempt is considered to have failed. Mirrors the original
	// driver's RIL_INIT_RETRY.
	SyncRetries int
	// SyncInterval is the delay between successive sync probes.
	SyncInterval time.Duration
	// BringupRetries is the number of full bring-up attempts (each
	// consisting of SyncRetries probes) before Open gives up. Between
	// attempts, if a PowerCycler is configured, the modem is power-cycled
	// and PowerCycleDelay is waited before retrying.
	BringupRetries int
	// PowerCycleDelay is the settle time after a power cycle before the
	// next bring-up attempt.
	PowerCycleDelay time.Duration
	// Power, if non-nil, is used to power-cycle the modem between failed
	// bring-up attempts, and once more after the first successful sync.
	// That extra post-sync cycle is deliberate: it mirrors behaviour of the
	// system this driver replaces, which always power-cycled once after
	// first establishing communication, and is preserved here rather than
	// treated as a bug, since downstream firmware depends on the modem
	// having gone through exactly one full power transition before use.
	Power PowerCycler
	// ActivateURCs lists the URCs to enable after the modem responds.
	// AT^CURC=0 and the per-family activation commands are issued in this
	// order.
	ActivateURCs []URCName
}

// DefaultLifecycleConfig returns the retry/timing defaults used by Open when
// no overrides are supplied.
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		SyncRetries:     10,
		SyncInterval:    500 * time.Millisecond,
		BringupRetries:  3,
		PowerCycleDelay: time.Second,
	}
}

// Open brings a freshly created AT up into a known state: it escapes any
// stuck SMS/PDU prompt, repeatedly probes with bare "AT" until the modem
// answers (power-cycling between attempts if cfg.Power is set), then
// configures echo, verbose numeric errors, and any requested URCs.
//
// Open corresponds to RIL_initialize/RIL_deInitialize in the system this
// driver replaces, reworked from a global singleton with a bounded retry
// counter into a method on an explicit AT value using context for
// cancellation instead of a tick budget.
func (a *AT) Open(ctx context.Context, cfg LifecycleConfig) error {
	if cfg.SyncRetries <= 0 {
		cfg.SyncRetries = DefaultLifecycleConfig().SyncRetries
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultLifecycleConfig().SyncInterval
	}
	if cfg.BringupRetries <= 0 {
		cfg.BringupRetries = DefaultLifecycleConfig().BringupRetries
	}
	if cfg.PowerCycleDelay <= 0 {
		cfg.PowerCycleDelay = DefaultLifecycleConfig().PowerCycleDelay
	}

	firstSync := true
	var lastErr error
	for attempt := 0; attempt < cfg.BringupRetries; attempt++ {
		if attempt > 0 && cfg.Power != nil {
			if err := cfg.Power.PowerCycle(ctx); err != nil {
				return wrapf(err, "power cycle before bring-up attempt %d", attempt)
			}
			if err := sleepCtx(ctx, cfg.PowerCycleDelay); err != nil {
				return err
			}
		}
		if err := a.sync(ctx, cfg.SyncRetries, cfg.SyncInterval); err != nil {
			lastErr = err
			continue
		}
		if firstSync && cfg.Power != nil {
			// Preserve the one-time post-sync power cycle: see the comment
			// on LifecycleConfig.Power.
			firstSync = false
			if err := cfg.Power.PowerCycle(ctx); err != nil {
				return wrapf(err, "post-sync power cycle")
			}
			if err := sleepCtx(ctx, cfg.PowerCycleDelay); err != nil {
				return err
			}
			if err := a.sync(ctx, cfg.SyncRetries, cfg.SyncInterval); err != nil {
				lastErr = err
				continue
			}
		}
		if err := a.configure(ctx, cfg.ActivateURCs); err != nil {
			return err
		}
		return nil
	}
	if lastErr == nil {
		lastErr = ErrNotResponding
	}
	return lastErr
}

// sync escapes any stuck prompt and probes with bare "AT" until the modem
// replies OK or retries are exhausted.
func (a *AT) sync(ctx context.Context, retries int, interval time.Duration) error {
	a.escape()
	var err error
	for i := 0; i < retries; i++ {
		_, err = a.Command(ctx, "")
		if err == nil {
			return nil
		}
		if err == context.Canceled || err == context.DeadlineExceeded {
			return err
		}
		if err := sleepCtx(ctx, interval); err != nil {
			return err
		}
	}
	return ErrNotResponding
}

// configure sets echo, verbose numeric errors and activates the requested
// URCs, mirroring the ATE1/AT+CMEE=1/ATV1 sequence of deInitialize.
func (a *AT) configure(ctx context.Context, urcs []URCName) error {
	cmds := []string{
		"E1",      // echo on - the command engine's echo detection relies on it
		"+CMEE=1", // numeric CME/CMS errors
		"V1",      // verbose result codes
		"^CURC=0", // disable the modem's legacy ^XXXX indications
	}
	for _, cmd := range cmds {
		if _, err := a.Command(ctx, cmd); err != nil {
			return wrapf(err, "AT%s returned error", cmd)
		}
	}
	d := NewDispatcher(a)
	for _, u := range urcs {
		if err := d.Activate(ctx, u); err != nil {
			return wrapf(err, "activating urc %d", u)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
