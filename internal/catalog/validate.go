package catalog

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/ASHISH26940/shelfdb/internal/book"
)

const (
	msgBookRequired   = "book cannot be null"
	msgTitleRequired  = "book title is required"
	msgAuthorRequired = "book author is required"
	msgYearPositive   = "book year must be positive"
)

// fieldMessages maps a failing Book field to the message reported to callers.
var fieldMessages = map[string]string{
	"Title":  msgTitleRequired,
	"Author": msgAuthorRequired,
	"Year":   msgYearPositive,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

// notBlank uses the same blank rule as the store so a title accepted here is
// never rejected on save and the reverse.
func notBlank(fl validator.FieldLevel) bool {
	return !book.IsBlank(fl.Field().String())
}

// validateBook checks b field by field in declaration order and reports only
// the first rule that fails.
func (s *Service) validateBook(b *book.Book) error {
	if b == nil {
		return book.NewInvalidArgumentError(msgBookRequired)
	}

	err := s.validate.Struct(b)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return book.NewInvalidArgumentError(err.Error())
	}

	first := fieldErrs[0]
	if msg, ok := fieldMessages[first.StructField()]; ok {
		return book.NewInvalidArgumentError(msg)
	}
	return book.NewInvalidArgumentError(first.Error())
}
