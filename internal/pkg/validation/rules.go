// Package validation registers the domain-specific validator tags shared by
// request binding and grid/import row checks.
package validation

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/scholaris/internal/app/models"
)

// Validation rule patterns
var (
	// Award numbers are printed on the NOA, e.g. "TDP-2024-00017" or "CMSP 0001".
	AwardNumberPattern = `^[A-Za-z0-9][A-Za-z0-9 ./_-]{0,63}$`

	// Philippine mobile or landline, loosely: digits, spaces, dashes, plus, parentheses.
	ContactNumberPattern = `^[0-9+() -]{7,32}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	AwardNumber   *regexp.Regexp
	ContactNumber *regexp.Regexp
}{
	AwardNumber:   regexp.MustCompile(AwardNumberPattern),
	ContactNumber: regexp.MustCompile(ContactNumberPattern),
}

// Register adds the custom tags to v:
//
//	academic_year   "YYYY-YYYY" with consecutive years
//	award_number    AwardNumberPattern
//	contact_number  ContactNumberPattern
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"academic_year": func(fl validator.FieldLevel) bool {
			return models.ValidateAcademicYear(fl.Field().String()) == nil
		},
		"award_number": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.AwardNumber.MatchString(fl.Field().String())
		},
		"contact_number": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.ContactNumber.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// New returns a validator reading `validate` tags with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

var bindingOnce sync.Once

// RegisterBinding installs the custom tags on gin's binding validator so
// request DTOs may use them in `binding` tags. Safe to call more than once.
func RegisterBinding() {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := Register(v); err != nil {
				panic(err)
			}
		}
	})
}
