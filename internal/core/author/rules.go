package author

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/taibuivan/library-api/internal/platform/validate"
	"github.com/taibuivan/library-api/pkg/normalize"
)

const (
	nameMinLength      = 2
	nameMaxLength      = 100
	nationalityMaxLen  = 100
	bioMaxLength       = 5000
	emailMessage       = "Please provide a valid email address"
	birthDateMessage   = "Please provide a valid birth date in YYYY-MM-DD format"
	nationalityMessage = "Nationality must not exceed 100 characters"
	bioMessage         = "Bio must not exceed 5000 characters"
)

// CreateInput is the request body of POST /authors.
type CreateInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
	Bio         *string `json:"bio"`
}

// Normalize trims and NFC-normalizes every text field and lowercases the email.
func (in *CreateInput) Normalize() {
	in.FirstName = normalize.Text(in.FirstName)
	in.LastName = normalize.Text(in.LastName)
	in.Email = normalize.OptionalEmail(in.Email)
	in.BirthDate = normalize.OptionalText(in.BirthDate)
	in.Nationality = normalize.OptionalText(in.Nationality)
	in.Bio = normalize.OptionalText(in.Bio)
}

// Validate applies the create rule set.
func (in *CreateInput) Validate() error {
	return validate.Struct(in,
		validation.Field(&in.FirstName,
			validation.Required.Error("First name is required"),
			validation.RuneLength(nameMinLength, nameMaxLength).Error("First name must be between 2 and 100 characters"),
		),
		validation.Field(&in.LastName,
			validation.Required.Error("Last name is required"),
			validation.RuneLength(nameMinLength, nameMaxLength).Error("Last name must be between 2 and 100 characters"),
		),
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.BirthDate, birthDateRules()...),
		validation.Field(&in.Nationality, validation.RuneLength(0, nationalityMaxLen).Error(nationalityMessage)),
		validation.Field(&in.Bio, validation.RuneLength(0, bioMaxLength).Error(bioMessage)),
	)
}

// NewAuthor converts a validated input into insert values.
func (in *CreateInput) NewAuthor() *NewAuthor {
	author := &NewAuthor{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Nationality: in.Nationality,
		Bio:         in.Bio,
	}
	if date := validate.ParseDate(in.BirthDate); date != nil {
		author.BirthDate = *date
	}
	return author
}

// UpdateInput is the request body of PUT /authors/{id}. Absent and null
// fields are left unchanged.
type UpdateInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
	Bio         *string `json:"bio"`
}

// Normalize trims and NFC-normalizes every present text field.
func (in *UpdateInput) Normalize() {
	in.FirstName = normalize.OptionalText(in.FirstName)
	in.LastName = normalize.OptionalText(in.LastName)
	in.Email = normalize.OptionalEmail(in.Email)
	in.BirthDate = normalize.OptionalText(in.BirthDate)
	in.Nationality = normalize.OptionalText(in.Nationality)
	in.Bio = normalize.OptionalText(in.Bio)
}

// Validate applies the update rule set: every field optional, checked when present.
func (in *UpdateInput) Validate() error {
	return validate.Struct(in,
		validation.Field(&in.FirstName, validate.Length("First name", nameMinLength, nameMaxLength)...),
		validation.Field(&in.LastName, validate.Length("Last name", nameMinLength, nameMaxLength)...),
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.BirthDate, birthDateRules()...),
		validation.Field(&in.Nationality, validation.RuneLength(0, nationalityMaxLen).Error(nationalityMessage)),
		validation.Field(&in.Bio, validation.RuneLength(0, bioMaxLength).Error(bioMessage)),
	)
}

// Patch converts a validated input into a typed partial update.
func (in *UpdateInput) Patch() Patch {
	return Patch{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		BirthDate:   validate.ParseDate(in.BirthDate),
		Nationality: in.Nationality,
		Bio:         in.Bio,
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.NilOrNotEmpty.Error(emailMessage),
		validation.RuneLength(0, 255).Error(emailMessage),
		is.EmailFormat.Error(emailMessage),
	}
}

func birthDateRules() []validation.Rule {
	return []validation.Rule{
		validation.NilOrNotEmpty.Error(birthDateMessage),
		validation.Date(validate.DateLayout).Error(birthDateMessage),
	}
}
