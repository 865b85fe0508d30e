// Package validator runs the tag-based rules on the API's request
// payloads: order, purchase-order and withdrawal-order creation, stock
// batches, and the user management requests.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse describes one failed field so handlers can tell the
// caller which part of the payload was rejected.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// uuid_required rejects the zero UUID, which BodyParser leaves
	// behind when a product_id field is missing from the JSON.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
}

// ValidateStruct checks data against its validate tags and returns one
// entry per failed field. An empty slice means the payload is valid.
func ValidateStruct(data interface{}) []*ErrorResponse {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a per-field failure (e.g. a non-struct was passed in)
		return []*ErrorResponse{{FailedField: "payload", Tag: "invalid"}}
	}

	failures := make([]*ErrorResponse, 0, len(verrs))
	for _, fe := range verrs {
		failures = append(failures, &ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return failures
}
