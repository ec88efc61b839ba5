package person

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/person-service/backend/internal/domain/person"
)

// InputRoot is the path marker for the top-level decoded value
const InputRoot = "$input"

// Expected type names reported in FieldError.Expected
const (
	ExpectedString         = "string"
	ExpectedOptionalString = "(string | undefined)"
	ExpectedUndefined      = "undefined"
	ExpectedPerson         = "Person"
	ExpectedAddress        = "Address"
)

// FieldError describes one schema violation
type FieldError struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
}

type fieldKind int

const (
	requiredString fieldKind = iota
	optionalString
	nestedObject
)

type field struct {
	name   string
	kind   fieldKind
	object *objectSchema
}

type objectSchema struct {
	typeName string
	fields   []field
}

var addressSchema = &objectSchema{
	typeName: ExpectedAddress,
	fields: []field{
		{name: "street", kind: requiredString},
		{name: "houseNumber", kind: requiredString},
		{name: "apartmentNumber", kind: optionalString},
		{name: "city", kind: requiredString},
		{name: "state", kind: requiredString},
		{name: "country", kind: requiredString},
		{name: "postalCode", kind: requiredString},
	},
}

var personSchema = &objectSchema{
	typeName: ExpectedPerson,
	fields: []field{
		{name: "firstName", kind: requiredString},
		{name: "lastName", kind: requiredString},
		{name: "phoneNumber", kind: requiredString},
		{name: "address", kind: nestedObject, object: addressSchema},
	},
}

// ValidatePerson checks a decoded JSON value against the Person shape.
//
// All violations are collected. For each object, its declared fields are
// reported in declared order, then unknown keys in lexical order, and only
// then the contents of nested objects. On success the typed Person is
// returned and the error slice is nil.
func ValidatePerson(v any) (person.Person, []FieldError) {
	errs := validateObject(v, InputRoot, personSchema, nil)
	if len(errs) > 0 {
		return person.Person{}, errs
	}
	return buildPerson(v.(map[string]any)), nil
}

func validateObject(v any, path string, schema *objectSchema, errs []FieldError) []FieldError {
	obj, ok := v.(map[string]any)
	if !ok {
		return append(errs, FieldError{Path: path, Expected: schema.typeName})
	}

	var nested []field
	for _, f := range schema.fields {
		raw, present := obj[f.name]
		fieldPath := joinPath(path, f.name)

		switch f.kind {
		case requiredString:
			if _, isString := raw.(string); !present || !isString {
				errs = append(errs, FieldError{Path: fieldPath, Expected: ExpectedString})
			}
		case optionalString:
			if _, isString := raw.(string); present && !isString {
				errs = append(errs, FieldError{Path: fieldPath, Expected: ExpectedOptionalString})
			}
		case nestedObject:
			if _, isObject := raw.(map[string]any); !present || !isObject {
				errs = append(errs, FieldError{Path: fieldPath, Expected: f.object.typeName})
				continue
			}
			nested = append(nested, f)
		}
	}

	errs = append(errs, unknownKeys(obj, path, schema)...)

	for _, f := range nested {
		errs = validateObject(obj[f.name], joinPath(path, f.name), f.object, errs)
	}
	return errs
}

func unknownKeys(obj map[string]any, path string, schema *objectSchema) []FieldError {
	var extra []string
	for key := range obj {
		if !schema.declares(key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	errs := make([]FieldError, 0, len(extra))
	for _, key := range extra {
		errs = append(errs, FieldError{Path: joinPath(path, key), Expected: ExpectedUndefined})
	}
	return errs
}

func (s *objectSchema) declares(name string) bool {
	for _, f := range s.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// joinPath appends key using dot notation, or bracket notation when the key
// is not a plain identifier.
func joinPath(path, key string) string {
	if identifierPattern.MatchString(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func buildPerson(obj map[string]any) person.Person {
	addr := obj["address"].(map[string]any)

	p := person.Person{
		FirstName:   obj["firstName"].(string),
		LastName:    obj["lastName"].(string),
		PhoneNumber: obj["phoneNumber"].(string),
		Address: person.Address{
			Street:      addr["street"].(string),
			HouseNumber: addr["houseNumber"].(string),
			City:        addr["city"].(string),
			State:       addr["state"].(string),
			Country:     addr["country"].(string),
			PostalCode:  addr["postalCode"].(string),
		},
	}
	if apt, ok := addr["apartmentNumber"].(string); ok {
		p.Address.ApartmentNumber = &apt
	}
	return p
}
