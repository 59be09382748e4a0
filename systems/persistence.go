package systems

import (
	"encoding/json"
	"fmt"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/logging"
	"github.com/quasilyte/gdata"
	"github.com/rs/zerolog"
)

const profileKey = "profile"

// ClientProfile is what the client remembers between runs.
type ClientProfile struct {
	Name           string `json:"name"`
	Server         string `json:"server"`
	Loadout        string `json:"loadout"`
	ReconnectToken string `json:"reconnectToken"`
}

// DefaultProfile builds a profile from the client config.
func DefaultProfile() ClientProfile {
	return ClientProfile{
		Name:    config.Client.PlayerName,
		Server:  config.Client.Address,
		Loadout: config.Client.Loadout,
	}
}

// ProfileStore persists the client profile with gdata. A store that failed
// to open behaves as empty and drops writes.
type ProfileStore struct {
	manager *gdata.Manager
	logger  zerolog.Logger
}

// OpenProfileStore opens the per-user data directory for appName.
func OpenProfileStore(appName string) (*ProfileStore, error) {
	s := &ProfileStore{logger: logging.For("profile")}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return s, fmt.Errorf("open profile store: %w", err)
	}
	s.manager = m
	return s, nil
}

// Load returns the saved profile, or the defaults when nothing was saved.
func (s *ProfileStore) Load() ClientProfile {
	profile := DefaultProfile()
	if s == nil || s.manager == nil {
		return profile
	}

	data, err := s.manager.LoadItem(profileKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not load profile")
		return profile
	}
	if len(data) == 0 {
		return profile
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		s.logger.Warn().Err(err).Msg("could not parse saved profile")
		return DefaultProfile()
	}
	return profile
}

func (s *ProfileStore) Save(p ClientProfile) error {
	if s == nil || s.manager == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.manager.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
