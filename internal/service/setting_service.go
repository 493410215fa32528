package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/abenitj/biblefacts-backend/internal/model"
	"github.com/abenitj/biblefacts-backend/internal/repository"
)

// SettingService handles application settings. The sync coordinator's keys
// are read-only through this surface: the coordinator owns their writes.
type SettingService struct {
	settings *repository.SettingRepository
	log      zerolog.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settings: settings,
		log:      log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) List(ctx context.Context) ([]model.AppSetting, error) {
	return s.settings.GetAll(ctx)
}

func (s *SettingService) Get(ctx context.Context, key string) (*model.AppSetting, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return setting, err
}

// Update upserts the given settings, skipping the coordinator-owned keys.
func (s *SettingService) Update(ctx context.Context, req *model.UpdateSettingsRequest) ([]model.AppSetting, error) {
	for key, value := range req.Settings {
		if key == model.SettingContentVersion || key == model.SettingLastSyncAt {
			s.log.Warn().Str("key", key).Msg("skipping write to coordinator-owned setting")
			continue
		}
		if err := s.settings.Upsert(ctx, key, value); err != nil {
			return nil, err
		}
	}
	return s.settings.GetAll(ctx)
}
