package postgres

import (
	"context"

	"navigator/internal/logger"
	"navigator/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const routeBatchSize = 500

// RouteRepository stores planned routes in PostgreSQL
type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// SaveRoutes upserts routes in batches, one transaction per batch
func (r *RouteRepository) SaveRoutes(ctx context.Context, routes []*model.Route) error {
	for i := 0; i < len(routes); i += routeBatchSize {
		end := min(i+routeBatchSize, len(routes))

		rows := make([]*model.RoutePG, 0, end-i)
		for _, route := range routes[i:end] {
			rows = append(rows, route.ToPG())
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
		})
		if err != nil {
			return err
		}

		logger.L().Debug("Saved batch of routes to PostgreSQL",
			zap.Int("batch", len(rows)), zap.Int("done", end), zap.Int("total", len(routes)))
	}
	return nil
}

// LoadRoutes loads every stored route, skipping rows whose polyline no longer decodes
func (r *RouteRepository) LoadRoutes(ctx context.Context) ([]*model.Route, error) {
	var rows []*model.RoutePG
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	routes := make([]*model.Route, 0, len(rows))
	for _, row := range rows {
		route, err := model.RouteFromPG(row)
		if err != nil {
			logger.L().Warn("Skipping stored route", zap.String("route", row.ID), zap.Error(err))
			continue
		}
		routes = append(routes, route)
	}
	return routes, nil
}
