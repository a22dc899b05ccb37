package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"themepark-ticketing-platform/internal/models"
)

// CatalogRepository handles read-only destination, park and ticket type data.
// The purchase flow never writes through it.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// TicketTypeFilters narrows ticket type listings.
type TicketTypeFilters struct {
	ParkID        int  // Filter by park
	DestinationID int  // Filter by destination (through park)
	ActiveOnly    bool // Purchase paths see only active types
}

// ListDestinations retrieves all destinations
func (r *CatalogRepository) ListDestinations() ([]*models.Destination, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM destinations
		ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, models.NewPersistenceError("list destinations", err)
	}
	defer rows.Close()

	var destinations []*models.Destination
	for rows.Next() {
		d := &models.Destination{}
		err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, models.NewPersistenceError("scan destination", err)
		}
		destinations = append(destinations, d)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate destinations", err)
	}

	return destinations, nil
}

// GetDestinationByID retrieves a destination by ID
func (r *CatalogRepository) GetDestinationByID(id int) (*models.Destination, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM destinations
		WHERE id = $1`

	d := &models.Destination{}
	err := r.db.QueryRow(query, id).Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrDestinationNotFound
		}
		return nil, models.NewPersistenceError("get destination", err)
	}

	return d, nil
}

// ListParks retrieves parks, optionally filtered by destination
func (r *CatalogRepository) ListParks(destinationID int) ([]*models.Park, error) {
	query := `
		SELECT id, destination_id, name, timezone, created_at, updated_at
		FROM parks`

	var args []interface{}
	if destinationID > 0 {
		query += " WHERE destination_id = $1"
		args = append(args, destinationID)
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("list parks", err)
	}
	defer rows.Close()

	var parks []*models.Park
	for rows.Next() {
		p := &models.Park{}
		err := rows.Scan(&p.ID, &p.DestinationID, &p.Name, &p.Timezone, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, models.NewPersistenceError("scan park", err)
		}
		parks = append(parks, p)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate parks", err)
	}

	return parks, nil
}

// GetParkByID retrieves a park by ID
func (r *CatalogRepository) GetParkByID(id int) (*models.Park, error) {
	query := `
		SELECT id, destination_id, name, timezone, created_at, updated_at
		FROM parks
		WHERE id = $1`

	p := &models.Park{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.DestinationID, &p.Name, &p.Timezone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrParkNotFound
		}
		return nil, models.NewPersistenceError("get park", err)
	}

	return p, nil
}

// ListTicketTypes retrieves ticket types matching the filters
func (r *CatalogRepository) ListTicketTypes(filters TicketTypeFilters) ([]*models.TicketType, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.ParkID > 0 {
		conditions = append(conditions, fmt.Sprintf("tt.park_id = $%d", argIndex))
		args = append(args, filters.ParkID)
		argIndex++
	}

	if filters.DestinationID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.destination_id = $%d", argIndex))
		args = append(args, filters.DestinationID)
		argIndex++
	}

	if filters.ActiveOnly {
		conditions = append(conditions, "tt.is_active = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT tt.id, tt.park_id, tt.name, tt.description, tt.price, tt.is_active, tt.created_at, tt.updated_at
		FROM ticket_types tt
		JOIN parks p ON tt.park_id = p.id
		%s
		ORDER BY tt.park_id ASC, tt.price ASC`, whereClause)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("list ticket types", err)
	}
	defer rows.Close()

	var ticketTypes []*models.TicketType
	for rows.Next() {
		tt := &models.TicketType{}
		err := rows.Scan(&tt.ID, &tt.ParkID, &tt.Name, &tt.Description, &tt.Price, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt)
		if err != nil {
			return nil, models.NewPersistenceError("scan ticket type", err)
		}
		ticketTypes = append(ticketTypes, tt)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate ticket types", err)
	}

	return ticketTypes, nil
}

// AttractionFilters narrows attraction listings.
type AttractionFilters struct {
	ParkID        int // Filter by park
	DestinationID int // Filter by destination (through park)
}

// ListAttractions retrieves attractions matching the filters
func (r *CatalogRepository) ListAttractions(filters AttractionFilters) ([]*models.Attraction, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.ParkID > 0 {
		conditions = append(conditions, fmt.Sprintf("a.park_id = $%d", argIndex))
		args = append(args, filters.ParkID)
		argIndex++
	}

	if filters.DestinationID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.destination_id = $%d", argIndex))
		args = append(args, filters.DestinationID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.park_id, a.name, a.description, a.attraction_type, a.latitude, a.longitude, a.created_at, a.updated_at
		FROM attractions a
		JOIN parks p ON a.park_id = p.id
		%s
		ORDER BY a.name ASC`, whereClause)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("list attractions", err)
	}
	defer rows.Close()

	var attractions []*models.Attraction
	for rows.Next() {
		a := &models.Attraction{}
		err := rows.Scan(&a.ID, &a.ParkID, &a.Name, &a.Description, &a.AttractionType, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, models.NewPersistenceError("scan attraction", err)
		}
		attractions = append(attractions, a)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate attractions", err)
	}

	return attractions, nil
}

// GetAttractionByID retrieves an attraction by ID
func (r *CatalogRepository) GetAttractionByID(id int) (*models.Attraction, error) {
	query := `
		SELECT id, park_id, name, description, attraction_type, latitude, longitude, created_at, updated_at
		FROM attractions
		WHERE id = $1`

	a := &models.Attraction{}
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.ParkID, &a.Name, &a.Description, &a.AttractionType, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrAttractionNotFound
		}
		return nil, models.NewPersistenceError("get attraction", err)
	}

	return a, nil
}

// GetTicketTypeByID retrieves a ticket type by ID
func (r *CatalogRepository) GetTicketTypeByID(id int) (*models.TicketType, error) {
	query := `
		SELECT id, park_id, name, description, price, is_active, created_at, updated_at
		FROM ticket_types
		WHERE id = $1`

	tt := &models.TicketType{}
	err := r.db.QueryRow(query, id).Scan(
		&tt.ID,
		&tt.ParkID,
		&tt.Name,
		&tt.Description,
		&tt.Price,
		&tt.IsActive,
		&tt.CreatedAt,
		&tt.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketTypeNotFound
		}
		return nil, models.NewPersistenceError("get ticket type", err)
	}

	return tt, nil
}
