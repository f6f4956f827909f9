package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
)

// customerColumns is the fixed select list for customer rows.
const customerColumns = `kundeid, firma, strasse, strassenzusatz, ort, land, plz, vorname, nachname, created, updated`

// ==================== Customer Repository ====================

// customerRepository implements driven.CustomerRepository.
type customerRepository struct {
	store *Store
}

var _ driven.CustomerRepository = (*customerRepository)(nil)

// FindAll returns every customer row.
func (r *customerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+customerColumns+`
		FROM kunde
		ORDER BY kundeid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// FindUpdatedAfter returns customers changed strictly after since.
func (r *customerRepository) FindUpdatedAfter(ctx context.Context, since time.Time) ([]domain.Customer, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+customerColumns+`
		FROM kunde
		WHERE updated > ?
		ORDER BY kundeid
	`, since)
	if err != nil {
		return nil, fmt.Errorf("querying changed customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// scanCustomers scans multiple customer rows.
func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var customers []domain.Customer //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}

	return customers, nil
}

// scanCustomer scans one customer from *sql.Rows.
func scanCustomer(rows *sql.Rows) (*domain.Customer, error) {
	var c domain.Customer
	var street, streetExtra, city, country, postalCode, firstName, lastName sql.NullString
	if err := rows.Scan(&c.ID, &c.CompanyName, &street, &streetExtra, &city, &country,
		&postalCode, &firstName, &lastName, &c.Created, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning customer: %w", err)
	}

	c.Street = street.String
	c.StreetExtra = streetExtra.String
	c.City = city.String
	c.Country = country.String
	c.PostalCode = postalCode.String
	c.FirstName = firstName.String
	c.LastName = lastName.String

	return &c, nil
}

// ==================== Order Repository ====================

// orderRepository implements driven.OrderRepository.
// Orders are always loaded together with their owning customer, whose
// country serves as the partition key.
type orderRepository struct {
	store *Store
}

var _ driven.OrderRepository = (*orderRepository)(nil)

// orderColumns is the fixed select list for order rows joined with
// their owning customer.
const orderColumns = `o.auftragid, o.artikelnummer, o.created, o.lastchange,
	k.kundeid, k.firma, k.strasse, k.strassenzusatz, k.ort, k.land, k.plz, k.vorname, k.nachname, k.created, k.updated`

// FindAll returns every order row with its owning customer.
func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM auftraege o
		JOIN kunde k ON k.kundeid = o.kundeid
		ORDER BY o.auftragid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// FindChangedAfter returns orders changed strictly after since.
func (r *orderRepository) FindChangedAfter(ctx context.Context, since time.Time) ([]domain.Order, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM auftraege o
		JOIN kunde k ON k.kundeid = o.kundeid
		WHERE o.lastchange > ?
		ORDER BY o.auftragid
	`, since)
	if err != nil {
		return nil, fmt.Errorf("querying changed orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// scanOrders scans multiple order rows.
func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.Order
		var c domain.Customer
		var street, streetExtra, city, country, postalCode, firstName, lastName sql.NullString
		if err := rows.Scan(&o.ID, &o.ArticleNumber, &o.Created, &o.LastChange,
			&c.ID, &c.CompanyName, &street, &streetExtra, &city, &country,
			&postalCode, &firstName, &lastName, &c.Created, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		c.Street = street.String
		c.StreetExtra = streetExtra.String
		c.City = city.String
		c.Country = country.String
		c.PostalCode = postalCode.String
		c.FirstName = firstName.String
		c.LastName = lastName.String

		o.Customer = &c
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}
