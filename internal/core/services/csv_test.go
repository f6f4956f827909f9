package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contargo/s3sync/internal/core/domain"
)

func TestCustomerCSVLine(t *testing.T) {
	customer := domain.Customer{
		ID:          "4711",
		CompanyName: "Contargo GmbH & Co. KG",
		Street:      "Hafenstrasse 1",
		StreetExtra: "Gebaeude B",
		City:        "Duisburg",
		Country:     "DE",
		PostalCode:  "47119",
		FirstName:   "Max",
		LastName:    "Mustermann",
	}

	assert.Equal(t,
		"Contargo GmbH & Co. KG,Hafenstrasse 1,Gebaeude B,Duisburg,DE,47119,Max,Mustermann,4711",
		customerCSVLine(customer))
}

func TestCustomerCSVLineEscapesCommas(t *testing.T) {
	customer := domain.Customer{
		ID:          "1",
		CompanyName: "Mueller, Schmidt und Partner",
		City:        "Koeln",
	}

	line := customerCSVLine(customer)
	assert.Equal(t, "Mueller  Schmidt und Partner,,,Koeln,,,,,1", line)
}

func TestOrderCSVLine(t *testing.T) {
	order := domain.Order{
		ID:            "9001",
		ArticleNumber: "ART-42",
		LastChange:    time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		Customer:      &domain.Customer{ID: "4711"},
	}

	assert.Equal(t, "9001,ART-42,4711", orderCSVLine(order))
}

func TestOrderCSVLineWithoutCustomer(t *testing.T) {
	order := domain.Order{ID: "9002", ArticleNumber: "ART-43"}

	assert.Equal(t, "9002,ART-43,", orderCSVLine(order))
}
