package models

import (
	"github.com/person-service/backend/internal/domain/person"
	"gorm.io/datatypes"
)

// PersonModel is the persistence model for person records.
// The address is kept as a JSON column (jsonb on postgres). Rows hold the
// record fields and nothing else.
type PersonModel struct {
	ID          string                             `gorm:"type:varchar(36);primaryKey"`
	FirstName   string                             `gorm:"type:varchar(255);not null"`
	LastName    string                             `gorm:"type:varchar(255);not null"`
	PhoneNumber string                             `gorm:"type:varchar(64);not null"`
	Address     datatypes.JSONType[person.Address] `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "persons"
}

// ToDomain converts the persistence model to a domain record
func (m *PersonModel) ToDomain() *person.Record {
	rec := person.NewRecord(m.ID, person.Person{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address.Data(),
	})
	return &rec
}

// FromDomain populates the persistence model from a domain record
func (m *PersonModel) FromDomain(rec person.Record) {
	m.ID = rec.ID
	m.FirstName = rec.FirstName
	m.LastName = rec.LastName
	m.PhoneNumber = rec.PhoneNumber
	m.Address = datatypes.NewJSONType(rec.Address)
}

// PersonModelFromDomain creates a new persistence model from a domain record
func PersonModelFromDomain(rec person.Record) *PersonModel {
	m := &PersonModel{}
	m.FromDomain(rec)
	return m
}
