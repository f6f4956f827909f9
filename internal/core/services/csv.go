package services

import (
	"strings"

	"github.com/contargo/s3sync/internal/core/domain"
)

// CSV line formats are a fixed contract with the export consumers:
// no header row, comma-joined fields in a fixed order, commas inside
// values replaced with a single space, absent values as empty strings.

// customerCSVLine serializes one customer row.
// Column order: companyName, street, streetExtra, city, country,
// postalCode, firstName, lastName, id.
func customerCSVLine(c domain.Customer) string {
	return strings.Join([]string{
		csvSafe(c.CompanyName),
		csvSafe(c.Street),
		csvSafe(c.StreetExtra),
		csvSafe(c.City),
		csvSafe(c.Country),
		csvSafe(c.PostalCode),
		csvSafe(c.FirstName),
		csvSafe(c.LastName),
		csvSafe(c.ID),
	}, ",")
}

// orderCSVLine serializes one order row.
// Column order: id, articleNumber, customerId.
func orderCSVLine(o domain.Order) string {
	customerID := ""
	if o.Customer != nil {
		customerID = o.Customer.ID
	}
	return strings.Join([]string{
		csvSafe(o.ID),
		csvSafe(o.ArticleNumber),
		csvSafe(customerID),
	}, ",")
}

// csvSafe replaces commas with spaces. Deliberately naive; proper CSV
// quoting would change the exported format consumers rely on.
func csvSafe(value string) string {
	return strings.ReplaceAll(value, ",", " ")
}
