package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

func OpenPostgres(cfg PostgresConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if cfg.Timeout > 0 {
		opts = append(opts, pgdriver.WithTimeout(cfg.Timeout))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

type restaurantRow struct {
	bun.BaseModel `bun:"table:restaurants,alias:r"`

	Seq             int64               `bun:"seq,autoincrement"`
	ID              string              `bun:"id,pk"`
	Name            string              `bun:"name,notnull"`
	Cuisine         string              `bun:"cuisine,notnull"`
	Location        string              `bun:"location,notnull"`
	Address         string              `bun:"address"`
	SeatingCapacity int                 `bun:"seating_capacity,notnull"`
	OperatingHours  map[string]DayHours `bun:"operating_hours,type:jsonb"`
	PriceRange      string              `bun:"price_range,notnull"`
	Rating          float64             `bun:"rating,notnull"`
	Description     string              `bun:"description"`
}

type reservationRow struct {
	bun.BaseModel `bun:"table:reservations,alias:res"`

	ID           string    `bun:"id,pk"`
	RestaurantID string    `bun:"restaurant_id,notnull"`
	SlotDate     string    `bun:"slot_date,notnull"`
	SlotTime     string    `bun:"slot_time,notnull"`
	PartySize    int       `bun:"party_size,notnull"`
	CustomerName string    `bun:"customer_name,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	Status       string    `bun:"status,notnull"`
}

// SQLStore is the Postgres-backed Store. CreateReservation locks the
// restaurant row for the duration of the check and the insert, which
// serializes bookings per restaurant across processes.
type SQLStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *bun.DB) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

// EnsureSchema creates the tables and the slot index when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	models := []any{(*restaurantRow)(nil), (*reservationRow)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	_, err := s.db.NewCreateIndex().
		Model((*reservationRow)(nil)).
		Index("reservations_slot_idx").
		IfNotExists().
		Column("restaurant_id", "slot_date", "slot_time").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}
	return nil
}

func (s *SQLStore) AddRestaurant(ctx context.Context, r Restaurant) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := upsertRestaurantQuery(s.db, toRestaurantRow(r)).Exec(ctx); err != nil {
		return fmt.Errorf("upsert restaurant=%s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLStore) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	row, err := loadRestaurant(ctx, s.db, id, false)
	if err != nil || row == nil {
		return nil, err
	}
	out := row.toRestaurant()
	return &out, nil
}

func (s *SQLStore) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	return s.SearchRestaurants(ctx, SearchQuery{})
}

func (s *SQLStore) SearchRestaurants(ctx context.Context, q SearchQuery) ([]Restaurant, error) {
	var rows []restaurantRow
	if err := searchQuery(s.db, &rows, q).Scan(ctx); err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}

	out := make([]Restaurant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRestaurant())
	}
	return out, nil
}

func (s *SQLStore) CheckAvailability(ctx context.Context, restaurantID, date, slot string, partySize int) (bool, error) {
	return available(ctx, s.db, restaurantID, date, slot, partySize, false)
}

func (s *SQLStore) CreateReservation(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	var created *Reservation

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := available(ctx, tx, req.RestaurantID, req.Date, req.Time, req.PartySize, true)
		if err != nil || !ok {
			return err
		}

		row := &reservationRow{
			ID:           uuid.NewString(),
			RestaurantID: req.RestaurantID,
			SlotDate:     req.Date,
			SlotTime:     req.Time,
			PartySize:    req.PartySize,
			CustomerName: req.CustomerName,
			CreatedAt:    s.now().UTC(),
			Status:       string(StatusConfirmed),
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		res := row.toReservation()
		created = &res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created != nil {
		log.Info().
			Str("reservation_id", created.ID).
			Str("restaurant_id", created.RestaurantID).
			Str("date", created.Date).
			Str("time", created.Time).
			Int("party_size", created.PartySize).
			Msg("reservation confirmed")
	}
	return created, nil
}

func (s *SQLStore) CancelReservation(ctx context.Context, id string) (bool, error) {
	result, err := cancelQuery(s.db, id).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("cancel reservation=%s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQLStore) GetReservation(ctx context.Context, id string) (*Reservation, error) {
	var row reservationRow
	err := s.db.NewSelect().Model(&row).Where("res.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation=%s: %w", id, err)
	}
	out := row.toReservation()
	return &out, nil
}

func available(ctx context.Context, idb bun.IDB, restaurantID, date, slot string, partySize int, lock bool) (bool, error) {
	row, err := loadRestaurant(ctx, idb, restaurantID, lock)
	if err != nil || row == nil {
		return false, err
	}

	var booked int
	if err := bookedQuery(idb, date, slot).Where("res.restaurant_id = ?", restaurantID).Scan(ctx, &booked); err != nil {
		return false, fmt.Errorf("sum booked seats: %w", err)
	}
	return fits(row.SeatingCapacity, booked, partySize), nil
}

func loadRestaurant(ctx context.Context, idb bun.IDB, id string, lock bool) (*restaurantRow, error) {
	var row restaurantRow
	err := restaurantQuery(idb, &row, id, lock).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load restaurant=%s: %w", id, err)
	}
	return &row, nil
}

func restaurantQuery(idb bun.IDB, dest *restaurantRow, id string, lock bool) *bun.SelectQuery {
	q := idb.NewSelect().Model(dest).Where("r.id = ?", id)
	if lock {
		q = q.For("UPDATE")
	}
	return q
}

// bookedQuery sums confirmed party sizes for one exact slot. Callers add the
// restaurant predicate.
func bookedQuery(idb bun.IDB, date, slot string) *bun.SelectQuery {
	return idb.NewSelect().
		Model((*reservationRow)(nil)).
		ColumnExpr("COALESCE(SUM(res.party_size), 0)").
		Where("res.slot_date = ?", date).
		Where("res.slot_time = ?", slot).
		Where("res.status = ?", string(StatusConfirmed))
}

func searchQuery(idb bun.IDB, dest *[]restaurantRow, q SearchQuery) *bun.SelectQuery {
	sel := idb.NewSelect().Model(dest).OrderExpr("r.seq ASC")

	if v := strings.TrimSpace(q.Cuisine); v != "" {
		sel = sel.Where("lower(r.cuisine) = lower(?)", v)
	}
	if v := strings.TrimSpace(q.Location); v != "" {
		sel = sel.Where("lower(r.location) = lower(?)", v)
	}
	if q.PartySize > 0 {
		sel = sel.Where("r.seating_capacity >= ?", q.PartySize)
	}
	if q.wantsSlot() {
		party := q.slotPartySize()
		booked := bookedQuery(idb, q.Date, q.Time).Where("res.restaurant_id = r.id")
		sel = sel.
			Where("r.seating_capacity >= ?", party).
			Where("r.seating_capacity - (?) >= ?", booked, party)
	}
	return sel
}

func upsertRestaurantQuery(idb bun.IDB, row *restaurantRow) *bun.InsertQuery {
	return idb.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("cuisine = EXCLUDED.cuisine").
		Set("location = EXCLUDED.location").
		Set("address = EXCLUDED.address").
		Set("seating_capacity = EXCLUDED.seating_capacity").
		Set("operating_hours = EXCLUDED.operating_hours").
		Set("price_range = EXCLUDED.price_range").
		Set("rating = EXCLUDED.rating").
		Set("description = EXCLUDED.description")
}

func cancelQuery(idb bun.IDB, id string) *bun.UpdateQuery {
	return idb.NewUpdate().
		Model((*reservationRow)(nil)).
		Set("status = ?", string(StatusCancelled)).
		Where("res.id = ?", id).
		Where("res.status = ?", string(StatusConfirmed))
}

func toRestaurantRow(r Restaurant) *restaurantRow {
	return &restaurantRow{
		ID:              r.ID,
		Name:            r.Name,
		Cuisine:         r.Cuisine,
		Location:        r.Location,
		Address:         r.Address,
		SeatingCapacity: r.SeatingCapacity,
		OperatingHours:  r.OperatingHours,
		PriceRange:      string(r.PriceRange),
		Rating:          r.Rating,
		Description:     r.Description,
	}
}

func (row restaurantRow) toRestaurant() Restaurant {
	return Restaurant{
		ID:              row.ID,
		Name:            row.Name,
		Cuisine:         row.Cuisine,
		Location:        row.Location,
		Address:         row.Address,
		SeatingCapacity: row.SeatingCapacity,
		OperatingHours:  row.OperatingHours,
		PriceRange:      PriceRange(row.PriceRange),
		Rating:          row.Rating,
		Description:     row.Description,
	}
}

func (row reservationRow) toReservation() Reservation {
	return Reservation{
		ID:           row.ID,
		RestaurantID: row.RestaurantID,
		Date:         row.SlotDate,
		Time:         row.SlotTime,
		PartySize:    row.PartySize,
		CustomerName: row.CustomerName,
		CreatedAt:    row.CreatedAt,
		Status:       ReservationStatus(row.Status),
	}
}
