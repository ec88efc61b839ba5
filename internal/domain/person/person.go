// Package person contains the person aggregate and the collaborator
// contracts used to create it.
package person

// Address is the postal address of a person
type Address struct {
	Street          string  `json:"street"`
	HouseNumber     string  `json:"houseNumber"`
	ApartmentNumber *string `json:"apartmentNumber,omitempty"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Country         string  `json:"country"`
	PostalCode      string  `json:"postalCode"`
}

// Person is the payload accepted when creating a person.
// It carries no identity; ids are assigned by the service.
type Person struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	PhoneNumber string  `json:"phoneNumber"`
	Address     Address `json:"address"`
}

// Record is a person as persisted in the record store
type Record struct {
	ID string `json:"id"`
	Person
}

// NewRecord assigns id to p
func NewRecord(id string, p Person) Record {
	return Record{ID: id, Person: p}
}
