package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"demandforecast/models"

	"github.com/jackc/pgx/v5"
)

var ErrUnknownCollection = errors.New("no sales collection for role")

// Querier is the part of *pgxpool.Pool the event store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type collection struct {
	table        string
	entityColumn string
}

// Sellers' sales and retailers' purchases live in separate tables with the same shape:
//
//	sales(seller_id text, product_id text, sale_date timestamptz, quantity integer)
//	retailer_sales(retailer_id text, product_id text, sale_date timestamptz, quantity integer)
var collections = map[models.EntityRole]collection{
	models.RoleSeller:   {table: "sales", entityColumn: "seller_id"},
	models.RoleRetailer: {table: "retailer_sales", entityColumn: "retailer_id"},
}

// PostgresEventStore reads sale events. It never writes.
type PostgresEventStore struct {
	db Querier
}

func NewPostgresEventStore(db Querier) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

func eventsQuery(role models.EntityRole) (string, error) {
	c, ok := collections[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, role)
	}
	return fmt.Sprintf(`
		SELECT sale_date, quantity
		FROM %s
		WHERE %s = $1 AND product_id = $2
	`, c.table, c.entityColumn), nil
}

// FetchEvents returns every event recorded for the entity and product, in no particular order.
func (s *PostgresEventStore) FetchEvents(ctx context.Context, role models.EntityRole, entityID, productID string) ([]models.RawEvent, error) {
	query, err := eventsQuery(role)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, query, entityID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s events: %w", role, err)
	}
	defer rows.Close()

	events := make([]models.RawEvent, 0)
	for rows.Next() {
		var (
			date     time.Time
			quantity int64
		)
		if err := rows.Scan(&date, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan %s event: %w", role, err)
		}
		if quantity < 0 {
			quantity = 0
		}
		events = append(events, models.RawEvent{
			EntityID:  entityID,
			ProductID: productID,
			Date:      date,
			Quantity:  quantity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s events: %w", role, err)
	}
	return events, nil
}
