package repository

import (
	"context"

	"coupon-engine/internal/infra"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: pool}
}

// FindByIDs resolves catalog item refs to priced rows. Unknown ids are
// simply absent from the result; the caller decides how to treat them.
func (r *CatalogRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.CatalogItemSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, kind, title, unit_price FROM catalog_items WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find catalog items", err)
	}
	defer rows.Close()

	var items []shared.CatalogItemSnapshot
	for rows.Next() {
		var item shared.CatalogItemSnapshot
		if err := rows.Scan(&item.ID, &item.Kind, &item.Title, &item.UnitPrice); err != nil {
			return nil, infra.WrapRepoErr("failed to scan catalog item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate catalog items", err)
	}
	return items, nil
}
