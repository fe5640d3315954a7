package booking

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// newOfflineDB never dials; the tests below only render SQL.
func newOfflineDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://postgres:@localhost:5432/goodfoods?sslmode=disable")))
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRestaurantQueryLocksRowForBooking(t *testing.T) {
	t.Parallel()

	db := newOfflineDB(t)

	locked := restaurantQuery(db, &restaurantRow{}, "rest_001", true).String()
	assert.Contains(t, locked, `FROM "restaurants" AS "r"`)
	assert.Contains(t, locked, "r.id = 'rest_001'")
	assert.Contains(t, locked, "FOR UPDATE")

	plain := restaurantQuery(db, &restaurantRow{}, "rest_001", false).String()
	assert.NotContains(t, plain, "FOR UPDATE")
}

func TestBookedQuerySumsConfirmedExactSlot(t *testing.T) {
	t.Parallel()

	db := newOfflineDB(t)

	got := bookedQuery(db, "2025-06-01", "19:00").Where("res.restaurant_id = ?", "rest_001").String()
	assert.Contains(t, got, "COALESCE(SUM(res.party_size), 0)")
	assert.Contains(t, got, "res.slot_date = '2025-06-01'")
	assert.Contains(t, got, "res.slot_time = '19:00'")
	assert.Contains(t, got, "res.status = 'confirmed'")
	assert.Contains(t, got, "res.restaurant_id = 'rest_001'")
}

func TestSearchQueryFilters(t *testing.T) {
	t.Parallel()

	db := newOfflineDB(t)

	var rows []restaurantRow
	got := searchQuery(db, &rows, SearchQuery{
		Cuisine:   " Italian ",
		Location:  "Downtown",
		PartySize: 4,
		Date:      "2025-06-01",
		Time:      "19:00",
	}).String()

	assert.Contains(t, got, "lower(r.cuisine) = lower('Italian')")
	assert.Contains(t, got, "lower(r.location) = lower('Downtown')")
	assert.Contains(t, got, "r.seating_capacity >= 4")
	assert.Contains(t, got, "res.restaurant_id = r.id")
	assert.Contains(t, got, "ORDER BY r.seq ASC")

	bare := searchQuery(db, &rows, SearchQuery{Date: "2025-06-01"}).String()
	assert.NotContains(t, bare, "res.slot_date")
}

func TestCancelQueryOnlyTouchesConfirmed(t *testing.T) {
	t.Parallel()

	db := newOfflineDB(t)

	got := cancelQuery(db, "res_1").String()
	assert.Contains(t, got, `UPDATE "reservations" AS "res"`)
	assert.Contains(t, got, "status = 'cancelled'")
	assert.Contains(t, got, "res.status = 'confirmed'")
}

func TestUpsertRestaurantQuery(t *testing.T) {
	t.Parallel()

	db := newOfflineDB(t)

	row := toRestaurantRow(testRestaurant("rest_001", "Italian", "Downtown", 40))
	got := upsertRestaurantQuery(db, row).String()
	assert.Contains(t, got, `INSERT INTO "restaurants"`)
	assert.Contains(t, got, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, got, "seating_capacity = EXCLUDED.seating_capacity")

	back := row.toRestaurant()
	require.Equal(t, "rest_001", back.ID)
	assert.Equal(t, PriceModerate, back.PriceRange)
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := OpenPostgres(PostgresConfig{})
	require.Error(t, err)

	_, err = NewSQLStore(nil)
	require.Error(t, err)
}
