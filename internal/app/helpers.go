package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/handywriterz/core/internal/config"
	"go.uber.org/zap"
)

// ensureSecrets fills missing token secrets with throwaway values in
// development. Tokens signed with them do not survive a restart.
func ensureSecrets(cfg *config.AppConfig, logger *zap.Logger) error {
	for name, secret := range map[string]*string{
		"identity.admin_secret": &cfg.Identity.AdminSecret,
		"identity.site_secret":  &cfg.Identity.SiteSecret,
	} {
		if strings.TrimSpace(*secret) != "" {
			continue
		}
		if !cfg.IsDev() {
			return fmt.Errorf("%s is required outside development", name)
		}
		*secret = uuid.NewString()
		logger.Warn("token secret is empty, using an ephemeral one", zap.String("key", name))
	}
	return nil
}

// applyRuntimeSettings resolves the configured timezone. Schedule dates
// entered in the editor are interpreted in it.
func applyRuntimeSettings(cfg *config.AppConfig) (*time.Location, error) {
	tz := strings.TrimSpace(cfg.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := parseTimezoneLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func parseTimezoneLocation(raw string) (*time.Location, error) {
	tz := strings.TrimSpace(raw)
	if tz == "" {
		return time.Local, nil
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	if len(tz) == 6 && (tz[0] == '+' || tz[0] == '-') && tz[3] == ':' {
		h, errH := strconv.Atoi(tz[1:3])
		m, errM := strconv.Atoi(tz[4:6])
		if errH == nil && errM == nil && h <= 23 && m <= 59 {
			offset := h*3600 + m*60
			if tz[0] == '-' {
				offset = -offset
			}
			return time.FixedZone(tz, offset), nil
		}
	}
	return nil, fmt.Errorf("expect IANA zone (e.g. Africa/Nairobi) or UTC offset (e.g. +03:00)")
}
