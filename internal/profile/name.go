package profile

import (
	"github.com/sampleapi/profile-cli/internal/api"
)

// Payload keys every user record must carry.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// Name is a resolved (first, last) pair. Both parts are non-empty.
type Name struct {
	First string `json:"firstName"`
	Last  string `json:"lastName"`
}

func (n Name) String() string {
	return n.First + " " + n.Last
}

// ParseName validates a payload and extracts the name pair. A missing,
// empty, or non-string field yields a data *api.Error naming every
// offending field.
func ParseName(p api.Payload) (Name, error) {
	first, okFirst := p.String(FieldFirstName)
	last, okLast := p.String(FieldLastName)

	var missing []string
	if !okFirst {
		missing = append(missing, FieldFirstName)
	}
	if !okLast {
		missing = append(missing, FieldLastName)
	}
	if len(missing) > 0 {
		return Name{}, api.NewDataError(missing...)
	}
	return Name{First: first, Last: last}, nil
}
