package pitch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pitchclerk/internal/services"
)

// submission is the draft as checked at submit time. The label tag names the
// field in user-facing messages.
type submission struct {
	Title         string   `validate:"required" label:"release title"`
	Type          string   `validate:"required,oneof=Single EP Album" label:"release type"`
	PrimaryArtist string   `validate:"required" label:"primary artist"`
	Genre         string   `validate:"required" label:"genre"`
	Description   string   `validate:"required" label:"release description"`
	MusicFile     string   `validate:"required" label:"music file"`
	CoverPhoto    string   `validate:"required" label:"cover photo"`
	Platforms     []string `validate:"min=1,dive,platform" label:"platforms"`
	PitchLocation string   `validate:"omitempty,url" label:"press picture link"`
	AppleMusic    string   `validate:"omitempty,url" label:"Apple Music link"`
	MusicLink     string   `validate:"omitempty,url" label:"Spotify artist link"`
	ListenLink    string   `validate:"omitempty,url" label:"listen link"`
	ReleaseDate   string   `validate:"required,datetime=2006-01-02" label:"release date"`
	PromotionDate string   `validate:"omitempty,datetime=2006-01-02" label:"promotion start date"`
	Language      string   `validate:"required" label:"language"`
	Country       string   `validate:"required" label:"country"`
	Territories   []string `validate:"min=1" label:"territory"`
	Package       string   `validate:"required,oneof=Pro Advance Curator" label:"package"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			return field.Tag.Get("label")
		})
		_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			_, ok := CanonicalPlatform(fl.Field().String())
			return ok
		})
		validate = v
	})
	return validate
}

// Validate checks that d is complete enough to submit. The returned error is
// an ErrValidation whose message lists every problem.
func Validate(d *Draft) error {
	if d == nil {
		return services.NewValidationError("validate draft", "There is no draft to submit.")
	}
	s := submission{
		Title:         strings.TrimSpace(d.Title),
		Type:          string(d.Type),
		PrimaryArtist: strings.TrimSpace(d.PrimaryArtist),
		Genre:         strings.TrimSpace(d.Genre),
		Description:   strings.TrimSpace(d.Description),
		Platforms:     d.Platforms,
		PitchLocation: strings.TrimSpace(d.PitchLocation),
		AppleMusic:    strings.TrimSpace(d.AppleMusic),
		MusicLink:     strings.TrimSpace(d.MusicLink),
		ListenLink:    strings.TrimSpace(d.ListenLink),
		ReleaseDate:   strings.TrimSpace(d.ReleaseDate),
		PromotionDate: strings.TrimSpace(d.PromotionDate),
		Language:      strings.TrimSpace(d.Language),
		Country:       strings.TrimSpace(d.Country),
		Territories:   d.Territories.List(),
		Package:       string(d.Package),
	}
	if d.MusicFile != nil {
		s.MusicFile = d.MusicFile.Path
	}
	if d.CoverPhoto != nil {
		s.CoverPhoto = d.CoverPhoto.Path
	}

	err := draftValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return services.Wrap(services.ErrValidation, "validate draft", "The draft could not be checked.", err)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "min":
			missing = append(missing, fe.Field())
		default:
			invalid = append(invalid, describe(fe))
		}
	}
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "Missing "+strings.Join(missing, ", ")+".")
	}
	if len(invalid) > 0 {
		parts = append(parts, "Invalid "+strings.Join(invalid, ", ")+".")
	}
	return services.NewValidationError("validate draft", strings.Join(parts, " "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return fmt.Sprintf("%s (not a URL)", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s (use YYYY-MM-DD)", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s (one of %s)", fe.Field(), fe.Param())
	case "platform":
		return fmt.Sprintf("platform %q", fe.Value())
	default:
		return fe.Field()
	}
}
