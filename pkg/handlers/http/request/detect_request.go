package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", validateMaxBytes)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateMaxBytes bounds the UTF-8 length of a string; the stock max tag
// counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= common.MaxTextBytes
}

// DetectRequest is the body of POST /v1/detect and the frame format of the
// live websocket. An empty text is valid and yields the insufficient input
// verdict.
type DetectRequest struct {
	Text            *string `json:"text" validate:"required,maxbytes"`
	IncludeFeatures bool    `json:"include_features"`
}

func (r *DetectRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	fe := validationErrors[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "maxbytes":
		return fmt.Errorf("%s must not exceed %d bytes", fe.Field(), common.MaxTextBytes)
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

func (r *DetectRequest) GetText() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}
