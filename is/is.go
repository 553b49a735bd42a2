// Package is provides string format rules. Each rule also rejects a present
// empty string and documents itself as an OpenAPI format.
package is

import (
	v "github.com/Gobd/reqvalidation"
	"github.com/asaskevich/govalidator"
	ozzois "github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var (
	// Email checks the address syntax only; no MX lookup is made.
	Email = v.NewFormatRule(govalidator.IsEmail, ozzois.ErrEmail, "email")

	// UUID accepts the canonical 36 character form of any version.
	UUID = v.NewFormatRule(isUUID, ozzois.ErrUUID, "uuid")

	// URL requires an absolute URL with a scheme, e.g. a database connection string.
	URL = v.NewFormatRule(govalidator.IsRequestURL, ozzois.ErrURL, "uri")
)

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
