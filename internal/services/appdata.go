package services

import (
	"context"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/appdata"
	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type AppDataService struct {
	store        database.Store
	yearsBack    int
	yearsForward int
	logger       *zap.Logger
}

func NewAppDataService(store database.Store, yearsBack, yearsForward int, logger *zap.Logger) *AppDataService {
	return &AppDataService{
		store:        store,
		yearsBack:    yearsBack,
		yearsForward: yearsForward,
		logger:       logger,
	}
}

// Upload recomputes the calendar reference document around now and upserts
// it. Running it twice for the same year range stores the same tables.
func (s *AppDataService) Upload(ctx context.Context, now time.Time) (*models.AppData, error) {
	from, to := appdata.YearRange(now, s.yearsBack, s.yearsForward)
	doc, err := appdata.Build(from, to, now)
	if err != nil {
		return nil, err
	}

	res, err := s.store.ReplaceOne(ctx, database.AppData,
		bson.M{"app_data_type": models.AppDataTypeCalendar}, doc, true)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	s.logger.Info("app data uploaded",
		zap.Int("from_year", from),
		zap.Int("to_year", to),
		zap.Bool("inserted", res.Upserted))
	return doc, nil
}

func (s *AppDataService) Get(ctx context.Context) (*models.AppData, error) {
	var doc models.AppData
	if err := s.store.FindOne(ctx, database.AppData,
		bson.M{"app_data_type": models.AppDataTypeCalendar}, &doc, nil); err != nil {
		return nil, storeErr(err, ErrAppDataNotFound)
	}
	return &doc, nil
}
