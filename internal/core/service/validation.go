package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
)

// Canonical field names, matching the wire names the backend uses in its
// field-error envelopes.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldDateOfBirth     = "dateOfBirth"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldBiography       = "biography"
	FieldDepartment      = "department"
	FieldRole            = "role"
)

var (
	// Strict ISO date: exactly 4-digit year, 2-digit month, 2-digit day.
	strictDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// Stricter than the default email check: constrained local part and a
	// dot-suffixed TLD-like segment in the domain.
	strictEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

	passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Schema is the declarative rule table for one save attempt. It is derived
// from exactly two inputs, the acting user's role and whether this save
// touches the password, and must be rebuilt whenever either changes.
type Schema struct {
	AdminActing     bool
	PasswordTouched bool

	// rules maps field name to a validator tag expression. Fields absent
	// from the map are not validated at all for this attempt.
	rules map[string]string
}

// BuildSchema derives the rule table for the given acting role and
// password-touched flag.
func BuildSchema(actingRoleID int, passwordTouched bool) Schema {
	admin := actingRoleID == domain.AdminRoleID

	rules := map[string]string{
		FieldFirstName:   "required,max=50",
		FieldLastName:    "required,max=50",
		FieldDateOfBirth: "required,strictdate",
		FieldEmail:       "required,strictemail",
		FieldBiography:   "omitempty,max=500",
	}
	if passwordTouched {
		rules[FieldPassword] = "required,min=8,complexity"
		rules[FieldConfirmPassword] = "required"
	}
	// Only admins can assign these, so only admins are required to send them.
	if admin {
		rules[FieldDepartment] = "required"
		rules[FieldRole] = "required"
	}

	return Schema{AdminActing: admin, PasswordTouched: passwordTouched, rules: rules}
}

// Rule returns the tag expression for field, or "" when the field is not
// validated under this schema.
func (s Schema) Rule(field string) string {
	return s.rules[field]
}

// Validator evaluates a Schema against an edited person. It wraps a single
// go-playground validator instance with the custom directory rules
// registered.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Registration only fails for empty tag names or nil functions.
	_ = v.RegisterValidation("strictdate", func(fl validator.FieldLevel) bool {
		return strictDateRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strictemail", func(fl validator.FieldLevel) bool {
		return strictEmailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("complexity", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		var upper, lower, digit, symbol bool
		for _, r := range s {
			switch {
			case r >= 'A' && r <= 'Z':
				upper = true
			case r >= 'a' && r <= 'z':
				lower = true
			case r >= '0' && r <= '9':
				digit = true
			case strings.ContainsRune(passwordSymbols, r):
				symbol = true
			}
		}
		return upper && lower && digit && symbol
	})

	return &Validator{v: v}
}

// Validate evaluates schema against the edited person and returns the
// field-scoped errors. people is the cached collection used for the
// advisory email-uniqueness check (the backend stays authoritative).
// An empty map means the save may proceed.
func (va *Validator) Validate(schema Schema, edited domain.Person, confirmPassword string, people []domain.Person) domain.FieldErrors {
	errs := domain.FieldErrors{}

	va.check(errs, schema, FieldFirstName, edited.FirstName)
	va.check(errs, schema, FieldLastName, edited.LastName)
	va.check(errs, schema, FieldDateOfBirth, edited.DateOfBirth)
	va.check(errs, schema, FieldEmail, edited.Email)
	va.check(errs, schema, FieldBiography, edited.Biography)
	va.check(errs, schema, FieldPassword, edited.Password)
	va.check(errs, schema, FieldConfirmPassword, confirmPassword)
	va.checkInt(errs, schema, FieldDepartment, edited.DepartmentID)
	va.checkInt(errs, schema, FieldRole, edited.RoleID)

	if schema.PasswordTouched && confirmPassword != "" && confirmPassword != edited.Password {
		errs[FieldConfirmPassword] = append(errs[FieldConfirmPassword], "confirmPassword must match password")
	}

	if _, bad := errs[FieldEmail]; !bad && schema.Rule(FieldEmail) != "" {
		if !emailUnique(edited, people) {
			errs[FieldEmail] = append(errs[FieldEmail], "email is already in use")
		}
	}

	return errs
}

func (va *Validator) check(errs domain.FieldErrors, schema Schema, field, value string) {
	tag := schema.Rule(field)
	if tag == "" {
		return
	}
	if err := va.v.Var(value, tag); err != nil {
		errs[field] = append(errs[field], fieldMessages(field, err)...)
	}
}

func (va *Validator) checkInt(errs domain.FieldErrors, schema Schema, field string, value int) {
	tag := schema.Rule(field)
	if tag == "" {
		return
	}
	if err := va.v.Var(value, tag); err != nil {
		errs[field] = append(errs[field], fieldMessages(field, err)...)
	}
}

// emailUnique checks the edited email against the cached collection,
// excluding the record's own id. Advisory only.
func emailUnique(edited domain.Person, people []domain.Person) bool {
	email := strings.ToLower(edited.Email)
	for _, p := range people {
		if p.ID != edited.ID && strings.ToLower(p.Email) == email {
			return false
		}
	}
	return true
}

// fieldMessages converts validator errors into human-readable, field-scoped
// messages.
func fieldMessages(field string, err error) []string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{field + " failed validation"}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(field, fe))
	}
	return msgs
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "strictdate":
		return field + " must be a date in YYYY-MM-DD format"
	case "strictemail":
		return field + " must be a valid email address"
	case "complexity":
		return field + " must contain an uppercase letter, a lowercase letter, a digit and a symbol"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
