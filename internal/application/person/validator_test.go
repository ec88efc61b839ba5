package person

import (
	"encoding/json"
	"testing"

	"github.com/person-service/backend/internal/domain/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const validAddress = `{"street":"AWS Way","houseNumber":"1","city":"Seattle","state":"WA","country":"USA","postalCode":"98101"}`

func TestValidatePerson_Valid(t *testing.T) {
	p, errs := ValidatePerson(decode(t, `{
		"firstName":"Alice","lastName":"Smith","phoneNumber":"+1-206-555-0100",
		"address":`+validAddress+`}`))

	require.Nil(t, errs)
	assert.Equal(t, person.Person{
		FirstName:   "Alice",
		LastName:    "Smith",
		PhoneNumber: "+1-206-555-0100",
		Address: person.Address{
			Street:      "AWS Way",
			HouseNumber: "1",
			City:        "Seattle",
			State:       "WA",
			Country:     "USA",
			PostalCode:  "98101",
		},
	}, p)
	assert.Nil(t, p.Address.ApartmentNumber)
}

func TestValidatePerson_ValidWithApartment(t *testing.T) {
	p, errs := ValidatePerson(decode(t, `{
		"firstName":"Bob","lastName":"Jones","phoneNumber":"555",
		"address":{"street":"Main","houseNumber":"2","apartmentNumber":"4B","city":"Austin","state":"TX","country":"USA","postalCode":"73301"}}`))

	require.Nil(t, errs)
	require.NotNil(t, p.Address.ApartmentNumber)
	assert.Equal(t, "4B", *p.Address.ApartmentNumber)
}

func TestValidatePerson_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []FieldError
	}{
		{
			name:  "missing lastName and phoneNumber",
			input: `{"firstName":"Alice","address":` + validAddress + `}`,
			expected: []FieldError{
				{Path: "$input.lastName", Expected: "string"},
				{Path: "$input.phoneNumber", Expected: "string"},
			},
		},
		{
			name:  "missing nested street",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","address":{"houseNumber":"1","city":"Seattle","state":"WA","country":"USA","postalCode":"98101"}}`,
			expected: []FieldError{
				{Path: "$input.address.street", Expected: "string"},
			},
		},
		{
			name:  "wrong type and null",
			input: `{"firstName":5,"lastName":null,"phoneNumber":true,"address":` + validAddress + `}`,
			expected: []FieldError{
				{Path: "$input.firstName", Expected: "string"},
				{Path: "$input.lastName", Expected: "string"},
				{Path: "$input.phoneNumber", Expected: "string"},
			},
		},
		{
			name:  "nested errors reported after all top-level fields",
			input: `{"firstName":"A","address":{"street":"S","houseNumber":"1","state":"WA","country":"USA","postalCode":"98101"}}`,
			expected: []FieldError{
				{Path: "$input.lastName", Expected: "string"},
				{Path: "$input.phoneNumber", Expected: "string"},
				{Path: "$input.address.city", Expected: "string"},
			},
		},
		{
			name:  "unknown keys in lexical order before nested fields",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","zeta":1,"age":30,"address":{"houseNumber":"1","city":"C","state":"S","country":"X","postalCode":"P","floor":"3"}}`,
			expected: []FieldError{
				{Path: "$input.age", Expected: "undefined"},
				{Path: "$input.zeta", Expected: "undefined"},
				{Path: "$input.address.street", Expected: "string"},
				{Path: "$input.address.floor", Expected: "undefined"},
			},
		},
		{
			name:  "unknown key needing bracket notation",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","first name":"x","address":` + validAddress + `}`,
			expected: []FieldError{
				{Path: `$input["first name"]`, Expected: "undefined"},
			},
		},
		{
			name:  "apartmentNumber of wrong type",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","address":{"street":"S","houseNumber":"1","apartmentNumber":12,"city":"C","state":"S","country":"X","postalCode":"P"}}`,
			expected: []FieldError{
				{Path: "$input.address.apartmentNumber", Expected: "(string | undefined)"},
			},
		},
		{
			name:  "apartmentNumber null",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","address":{"street":"S","houseNumber":"1","apartmentNumber":null,"city":"C","state":"S","country":"X","postalCode":"P"}}`,
			expected: []FieldError{
				{Path: "$input.address.apartmentNumber", Expected: "(string | undefined)"},
			},
		},
		{
			name:  "missing address",
			input: `{"firstName":"A","lastName":"B"}`,
			expected: []FieldError{
				{Path: "$input.phoneNumber", Expected: "string"},
				{Path: "$input.address", Expected: "Address"},
			},
		},
		{
			name:  "address not an object",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","address":"1 AWS Way"}`,
			expected: []FieldError{
				{Path: "$input.address", Expected: "Address"},
			},
		},
		{
			name:  "address null",
			input: `{"firstName":"A","lastName":"B","phoneNumber":"C","address":null}`,
			expected: []FieldError{
				{Path: "$input.address", Expected: "Address"},
			},
		},
		{
			name:  "empty object",
			input: `{}`,
			expected: []FieldError{
				{Path: "$input.firstName", Expected: "string"},
				{Path: "$input.lastName", Expected: "string"},
				{Path: "$input.phoneNumber", Expected: "string"},
				{Path: "$input.address", Expected: "Address"},
			},
		},
		{
			name:     "root array",
			input:    `[]`,
			expected: []FieldError{{Path: "$input", Expected: "Person"}},
		},
		{
			name:     "root string",
			input:    `"alice"`,
			expected: []FieldError{{Path: "$input", Expected: "Person"}},
		},
		{
			name:     "root null",
			input:    `null`,
			expected: []FieldError{{Path: "$input", Expected: "Person"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, errs := ValidatePerson(decode(t, tt.input))

			assert.Equal(t, tt.expected, errs)
			assert.Equal(t, person.Person{}, p)
		})
	}
}

func TestValidatePerson_Deterministic(t *testing.T) {
	input := `{"firstName":1,"b":1,"a":1,"c":1,"address":{"y":1,"x":1}}`
	_, want := ValidatePerson(decode(t, input))
	require.NotEmpty(t, want)

	for i := 0; i < 20; i++ {
		_, got := ValidatePerson(decode(t, input))
		assert.Equal(t, want, got)
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "$input.firstName", joinPath(InputRoot, "firstName"))
	assert.Equal(t, "$input._x$1", joinPath(InputRoot, "_x$1"))
	assert.Equal(t, `$input["1st"]`, joinPath(InputRoot, "1st"))
	assert.Equal(t, `$input["a.b"]`, joinPath(InputRoot, "a.b"))
}
