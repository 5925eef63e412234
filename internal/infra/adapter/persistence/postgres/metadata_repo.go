package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campwatch/internal/domain/entity"
	"campwatch/internal/observability/metrics"
	"campwatch/internal/repository"
)

type MetadataRepo struct{ db *sql.DB }

func NewMetadataRepo(db *sql.DB) repository.MetadataRepository {
	return &MetadataRepo{db: db}
}

func (repo *MetadataRepo) UpsertRecreationAreas(ctx context.Context, areas []entity.RecreationArea) error {
	const query = `
INSERT INTO recreation_areas (provider, rec_area_id, name, location, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (provider, rec_area_id)
DO UPDATE SET name = EXCLUDED.name, location = EXCLUDED.location, updated_at = now()`
	start := time.Now()
	for _, area := range areas {
		if _, err := repo.db.ExecContext(ctx, query,
			area.ProviderID, area.ID, area.Name, area.Location,
		); err != nil {
			return fmt.Errorf("UpsertRecreationAreas: %w", err)
		}
	}
	metrics.RecordDBQuery("upsert_recreation_areas", time.Since(start))
	return nil
}

func (repo *MetadataRepo) UpsertCampgrounds(ctx context.Context, provider string, facilities []entity.CampgroundFacility) error {
	const query = `
INSERT INTO campgrounds (provider, facility_id, facility_name, rec_area_id, rec_area_name, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (provider, facility_id)
DO UPDATE SET facility_name = EXCLUDED.facility_name,
              rec_area_id   = EXCLUDED.rec_area_id,
              rec_area_name = EXCLUDED.rec_area_name,
              updated_at    = now()`
	start := time.Now()
	for _, facility := range facilities {
		if _, err := repo.db.ExecContext(ctx, query,
			provider, facility.FacilityID, facility.FacilityName,
			facility.RecreationAreaID, facility.RecreationAreaName,
		); err != nil {
			return fmt.Errorf("UpsertCampgrounds: %w", err)
		}
	}
	metrics.RecordDBQuery("upsert_campgrounds", time.Since(start))
	return nil
}

func (repo *MetadataRepo) ListCampgrounds(ctx context.Context, provider string) ([]entity.CampgroundFacility, error) {
	const query = `
SELECT facility_id, facility_name, rec_area_id, rec_area_name
FROM campgrounds
WHERE provider = $1
ORDER BY facility_id ASC`
	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("ListCampgrounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	facilities, err := scanCampgrounds(rows)
	if err != nil {
		return nil, fmt.Errorf("ListCampgrounds: %w", err)
	}
	metrics.RecordDBQuery("list_campgrounds", time.Since(start))
	return facilities, nil
}

func (repo *MetadataRepo) SearchCampgrounds(ctx context.Context, provider, keyword string) ([]entity.CampgroundFacility, error) {
	const query = `
SELECT facility_id, facility_name, rec_area_id, rec_area_name
FROM campgrounds
WHERE provider = $1
  AND (facility_name ILIKE $2 OR rec_area_name ILIKE $2)
ORDER BY facility_id ASC`
	param := "%" + keyword + "%"
	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, provider, param)
	if err != nil {
		return nil, fmt.Errorf("SearchCampgrounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	facilities, err := scanCampgrounds(rows)
	if err != nil {
		return nil, fmt.Errorf("SearchCampgrounds: %w", err)
	}
	metrics.RecordDBQuery("search_campgrounds", time.Since(start))
	return facilities, nil
}

func scanCampgrounds(rows *sql.Rows) ([]entity.CampgroundFacility, error) {
	facilities := make([]entity.CampgroundFacility, 0, 50)
	for rows.Next() {
		var facility entity.CampgroundFacility
		if err := rows.Scan(
			&facility.FacilityID, &facility.FacilityName,
			&facility.RecreationAreaID, &facility.RecreationAreaName,
		); err != nil {
			return nil, err
		}
		facilities = append(facilities, facility)
	}
	return facilities, rows.Err()
}
