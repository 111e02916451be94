// Package bind decodes and validates JSON request bodies
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "rephraser/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxBytes caps a body when Options.MaxBytes is zero
const DefaultMaxBytes int64 = 1 << 20

// Options controls decoding
type Options struct {
	MaxBytes int64
	// Strict rejects fields the target type does not declare
	Strict bool
}

type engine struct {
	v     *validator.Validate
	trans ut.Translator
}

var get = sync.OnceValue(func() *engine {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &engine{v: v, trans: trans}
})

// JSON decodes one JSON value from the body into T and validates it
// Failures are ErrorCodeJSON for transport problems and ErrorCodeValidation
// for rule violations, the latter carry the offending field
func JSON[T any](r *http.Request, o Options) (T, error) {
	var zero, dst T
	limit := o.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body := http.MaxBytesReader(nil, r.Body, limit)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	if o.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return zero, perr.JSONErrf("body exceeds %d bytes", limit)
		case errors.Is(err, io.EOF):
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected data after the JSON value")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Validate runs the struct rules on v
func Validate(v any) error {
	e := get()
	err := e.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
	}
	fe := verrs[0]
	return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(e.trans)), fe.Field())
}

// jsonName reports fields by their json name
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
