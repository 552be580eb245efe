package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"coupon-engine/db"
	"coupon-engine/internal/pkg/errs"
)

type catalogSeed struct {
	id    uuid.UUID
	kind  string
	title string
	price decimal.Decimal
}

type couponSeed struct {
	code         string
	description  string
	discountType string
	value        decimal.Decimal
	minPurchase  decimal.Decimal
	maxDiscount  *decimal.Decimal
	applicableTo string
	startDate    *time.Time
	endDate      time.Time
	usageLimit   *int
	userLimit    int
	items        []uuid.UUID
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return errs.Wrap(err, "parse database URL")
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return errs.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("applying schema")

	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errs.Wrap(err, "apply schema")
	}

	items := demoCatalog()
	if err := seedCatalog(ctx, pool, items); err != nil {
		return errs.Wrap(err, "seed catalog")
	}

	if err := seedCoupons(ctx, pool, items); err != nil {
		return errs.Wrap(err, "seed coupons")
	}

	return nil
}

func demoCatalog() []catalogSeed {
	return []catalogSeed{
		{id: uuid.MustParse("0b51f8a2-6f3e-4c2e-9f30-111111111111"), kind: "course", title: "Go Backend Bootcamp", price: decimal.RequireFromString("499.00")},
		{id: uuid.MustParse("0b51f8a2-6f3e-4c2e-9f30-222222222222"), kind: "course", title: "PostgreSQL Deep Dive", price: decimal.RequireFromString("349.50")},
		{id: uuid.MustParse("0b51f8a2-6f3e-4c2e-9f30-333333333333"), kind: "ebook", title: "Concurrency Patterns", price: decimal.RequireFromString("59.99")},
		{id: uuid.MustParse("0b51f8a2-6f3e-4c2e-9f30-444444444444"), kind: "ebook", title: "API Design Notes", price: decimal.RequireFromString("29.00")},
		{id: uuid.MustParse("0b51f8a2-6f3e-4c2e-9f30-555555555555"), kind: "demo_class", title: "Intro to Testing", price: decimal.RequireFromString("15.00")},
	}
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, items []catalogSeed) error {
	slog.Info("upserting catalog items", slog.Int("count", len(items)))

	const q = `
		INSERT INTO catalog_items (id, kind, title, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET kind = EXCLUDED.kind, title = EXCLUDED.title,
		    unit_price = EXCLUDED.unit_price, updated_at = NOW()`

	for _, it := range items {
		if _, err := pool.Exec(ctx, q, it.id, it.kind, it.title, it.price); err != nil {
			return errs.Wrapf(err, "upsert catalog item %s", it.title)
		}
		slog.Info("upserted catalog item", slog.String("title", it.title), slog.String("kind", it.kind))
	}

	return nil
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool, catalog []catalogSeed) error {
	slog.Info("seeding demo coupons")

	now := time.Now().UTC()
	yearEnd := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	cap50 := decimal.RequireFromString("50.00")
	limit100 := 100
	limit1 := 1

	coupons := []couponSeed{
		{
			code:         "SAVE20",
			description:  "20% off courses, capped at 50",
			discountType: "percentage",
			value:        decimal.NewFromInt(20),
			minPurchase:  decimal.NewFromInt(100),
			maxDiscount:  &cap50,
			applicableTo: "courses",
			endDate:      yearEnd,
			usageLimit:   &limit100,
			userLimit:    1,
		},
		{
			code:         "FLAT100",
			description:  "100 off any order",
			discountType: "fixed",
			value:        decimal.NewFromInt(100),
			minPurchase:  decimal.NewFromInt(200),
			applicableTo: "all",
			endDate:      yearEnd,
			userLimit:    3,
		},
		{
			code:         "EBOOK10",
			description:  "10% off ebooks",
			discountType: "percentage",
			value:        decimal.NewFromInt(10),
			minPurchase:  decimal.Zero,
			applicableTo: "ebooks",
			endDate:      yearEnd,
			userLimit:    5,
		},
		{
			code:         "LAUNCH50",
			description:  "Half price on selected launch titles",
			discountType: "percentage",
			value:        decimal.NewFromInt(50),
			minPurchase:  decimal.Zero,
			applicableTo: "specific",
			startDate:    &future,
			endDate:      future.AddDate(0, 1, 0),
			usageLimit:   &limit1,
			userLimit:    1,
			items:        []uuid.UUID{catalog[0].id, catalog[2].id},
		},
	}

	const q = `
		INSERT INTO coupons (code, description, discount_type, value, min_purchase_amount,
		                     max_discount_amount, applicable_to, start_date, end_date,
		                     usage_limit, user_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		ON CONFLICT (code) DO UPDATE
		SET description = EXCLUDED.description, discount_type = EXCLUDED.discount_type,
		    value = EXCLUDED.value, min_purchase_amount = EXCLUDED.min_purchase_amount,
		    max_discount_amount = EXCLUDED.max_discount_amount,
		    applicable_to = EXCLUDED.applicable_to, start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date, usage_limit = EXCLUDED.usage_limit,
		    user_limit = EXCLUDED.user_limit, updated_at = NOW()
		RETURNING id`

	for _, c := range coupons {
		var couponID uuid.UUID
		err := pool.QueryRow(ctx, q,
			c.code, c.description, c.discountType, c.value, c.minPurchase,
			c.maxDiscount, c.applicableTo, c.startDate, c.endDate,
			c.usageLimit, c.userLimit,
		).Scan(&couponID)
		if err != nil {
			return errs.Wrapf(err, "upsert coupon %s", c.code)
		}

		for _, itemID := range c.items {
			kind := kindOf(catalog, itemID)
			if _, err := pool.Exec(ctx,
				`INSERT INTO coupon_items (coupon_id, item_kind, item_id)
				 VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				couponID, kind, itemID,
			); err != nil {
				return errs.Wrapf(err, "link item to coupon %s", c.code)
			}
		}

		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}

func kindOf(catalog []catalogSeed, id uuid.UUID) string {
	for _, it := range catalog {
		if it.id == id {
			return it.kind
		}
	}
	return "course"
}
