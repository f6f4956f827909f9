package domain

import "time"

// Order is a row from the auftraege table. Read-only to the sync core.
// An order has no country of its own; its owning customer's country is
// used as the partition key.
type Order struct {
	ID            string
	ArticleNumber string

	// Created and LastChange are auditing timestamps maintained by the
	// source system. LastChange is the change-detection column.
	Created    time.Time
	LastChange time.Time

	// Customer is the owning customer, loaded together with the order.
	Customer *Customer
}

// PartitionCountry returns the owning customer's country, or
// CountryUnknown when the customer or its country is absent.
func (o *Order) PartitionCountry() string {
	if o.Customer == nil || o.Customer.Country == "" {
		return CountryUnknown
	}
	return o.Customer.Country
}
