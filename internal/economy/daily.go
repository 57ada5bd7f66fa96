package economy

import (
	"fmt"
	"strconv"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// DailyService grants the periodic free-chips reward. The cooldown is
// read from the settings table on every claim so an admin change takes
// effect immediately; the clock is injected so tests can move time.
type DailyService struct {
	store            *Store
	clock            quartz.Clock
	logger           zerolog.Logger
	reward           int64
	fallbackCooldown time.Duration
}

// NewDailyService creates a daily-reward service. fallbackCooldown is
// used when the stored setting is missing or unparseable.
func NewDailyService(store *Store, clock quartz.Clock, logger zerolog.Logger, reward int64, fallbackCooldown time.Duration) *DailyService {
	return &DailyService{
		store:            store,
		clock:            clock,
		logger:           logger.With().Str("component", "daily").Logger(),
		reward:           reward,
		fallbackCooldown: fallbackCooldown,
	}
}

// ClaimResult reports the result of a daily-claim attempt.
type ClaimResult struct {
	Granted    bool
	Reward     int64
	NewBalance int64
	// Remaining is how long the player must still wait when the claim
	// was refused.
	Remaining time.Duration
}

// Claim grants the reward if the player is off cooldown, otherwise
// reports the remaining wait. Refusal is not an error.
func (d *DailyService) Claim(userID string) (ClaimResult, error) {
	cooldown := d.cooldown()
	now := d.clock.Now().UTC()

	last, claimed, err := d.store.LastClaim(userID)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("daily claim: %w", err)
	}

	if claimed {
		elapsed := now.Sub(last)
		if elapsed < cooldown {
			return ClaimResult{Remaining: cooldown - elapsed}, nil
		}
	}

	balance, err := d.store.Adjust(userID, d.reward)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("daily claim: %w", err)
	}
	if err := d.store.SetLastClaim(userID, now); err != nil {
		return ClaimResult{}, fmt.Errorf("daily claim: %w", err)
	}

	d.logger.Info().Str("player", userID).Int64("reward", d.reward).Int64("balance", balance).Msg("daily reward granted")
	return ClaimResult{Granted: true, Reward: d.reward, NewBalance: balance}, nil
}

// cooldown resolves the active cooldown from settings, falling back to
// the configured default on a missing or malformed value.
func (d *DailyService) cooldown() time.Duration {
	value, ok, err := d.store.Setting(SettingDailyCooldown)
	if err != nil || !ok {
		return d.fallbackCooldown
	}

	minutes, err := strconv.Atoi(value)
	if err != nil || minutes <= 0 {
		d.logger.Warn().Str("value", value).Msg("ignoring malformed cooldown setting")
		return d.fallbackCooldown
	}
	return time.Duration(minutes) * time.Minute
}
