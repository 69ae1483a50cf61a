package csvimport

import (
	"fmt"
	"strings"
)

// Header names expected in the first line of an import, compared
// case-sensitively after trimming.
const (
	HeaderFamilyName   = "Family Name"
	HeaderFirstName    = "Guest First Name"
	HeaderLastName     = "Guest Last Name"
	HeaderIsChild      = "Is Child"
	HeaderContactEmail = "Contact Email"
)

var requiredHeaders = []string{HeaderFamilyName, HeaderFirstName, HeaderLastName, HeaderIsChild}

// MissingHeadersError reports every required column absent from the header
// row, not just the first one found.
type MissingHeadersError struct {
	Headers []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Headers, ", "))
}

// GuestRow is one parsed guest line.
type GuestRow struct {
	FirstName string
	LastName  string
	IsChild   bool
}

// FamilyGroup collects the guest rows sharing one family name, in input order.
// ContactEmail comes from the first row seen for the family; later rows'
// e-mail values are ignored.
type FamilyGroup struct {
	FamilyName   string
	ContactEmail string
	Guests       []GuestRow
}

// Parse turns a raw comma-separated blob into family groups. The format is
// deliberately dumb: no quoting, no escaping, split on commas and newlines.
// Rows with fewer fields than the header, or with a blank family name, first
// name or last name, are skipped rather than rejected.
func Parse(raw string) ([]FamilyGroup, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	headers := splitFields(lines[0])
	if missing := missingRequired(headers); len(missing) > 0 {
		return nil, &MissingHeadersError{Headers: missing}
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	var order []string
	groups := make(map[string]*FamilyGroup)

	for _, line := range lines[1:] {
		values := splitFields(line)
		if len(values) < len(headers) {
			continue
		}

		familyName := values[index[HeaderFamilyName]]
		firstName := values[index[HeaderFirstName]]
		lastName := values[index[HeaderLastName]]
		if familyName == "" || firstName == "" || lastName == "" {
			continue
		}

		isChild := strings.EqualFold(values[index[HeaderIsChild]], "true")

		group, ok := groups[familyName]
		if !ok {
			group = &FamilyGroup{FamilyName: familyName}
			if i, ok := index[HeaderContactEmail]; ok {
				group.ContactEmail = values[i]
			}
			groups[familyName] = group
			order = append(order, familyName)
		}

		group.Guests = append(group.Guests, GuestRow{
			FirstName: firstName,
			LastName:  lastName,
			IsChild:   isChild,
		})
	}

	result := make([]FamilyGroup, 0, len(order))
	for _, name := range order {
		result = append(result, *groups[name])
	}
	return result, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func missingRequired(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, h := range requiredHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	return missing
}
