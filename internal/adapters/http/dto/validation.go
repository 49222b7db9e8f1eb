package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jsamuelsen/kondate/internal/app"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrBinding    = errors.New("binding failed")
)

// rule is a custom validator tag and the message shown when it fails.
type rule struct {
	fn      validator.Func
	message string
}

var rules = map[string]rule{
	"notempty": {
		fn:      func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
		message: "空にできません",
	},
	"uuid": {
		fn: func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v == "" || uuid.Validate(v) == nil
		},
		message: "UUID形式で指定してください",
	},
	// servings accepts 0 as "the recipe's own servings"; add required to
	// demand an explicit count.
	"servings": {
		fn: func(fl validator.FieldLevel) bool {
			n := fl.Field().Int()
			return n >= 0 && n <= app.MaxServings
		},
		message: "人数は1〜" + strconv.Itoa(app.MaxServings) + "人で指定してください",
	},
}

var builtinMessages = map[string]string{
	"required": "必須項目です",
	"gte":      "{param}以上で指定してください",
	"lte":      "{param}以下で指定してください",
	"gt":       "{param}より大きい値を指定してください",
	"lt":       "{param}より小さい値を指定してください",
	"oneof":    "次のいずれかを指定してください: {param}",
	"dive":     "要素が不正です",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name: json, then query, then path.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}

		return ""
	})

	for tag, r := range rules {
		if err := v.RegisterValidation(tag, r.fn); err != nil {
			panic(fmt.Sprintf("registering %s validator: %v", tag, err))
		}
	}

	return v
}

// Validate checks the struct tags of v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// Validatable is implemented by requests with rules beyond struct tags.
// Validate should return a domain validation error.
type Validatable interface {
	Validate() error
}

// ValidateAll checks struct tags, then the request's own rules.
func ValidateAll(v any) error {
	if err := Validate(v); err != nil {
		return err
	}

	if r, ok := v.(Validatable); ok {
		return r.Validate()
	}

	return nil
}

func bind(c *gin.Context, v any, fn func(any) error) error {
	if err := fn(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// BindAndValidate binds the JSON body.
func BindAndValidate(c *gin.Context, v any) error { return bind(c, v, c.ShouldBindJSON) }

// BindQueryAndValidate binds query parameters.
func BindQueryAndValidate(c *gin.Context, v any) error { return bind(c, v, c.ShouldBindQuery) }

// BindURIAndValidate binds path parameters.
func BindURIAndValidate(c *gin.Context, v any) error { return bind(c, v, c.ShouldBindUri) }

// ValidationErrors maps each failing field's wire name to a Japanese
// message for the response details.
func ValidationErrors(err error) map[string]string {
	details := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fieldMessage(fe)
		}
	}

	return details
}

func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func fieldMessage(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()

	if r, ok := rules[tag]; ok {
		return r.message
	}

	if tag == "min" || tag == "max" {
		return param + sizeUnit(fe.Type().Kind()) + map[string]string{"min": "以上", "max": "以下"}[tag] + "で指定してください"
	}

	if msg, ok := builtinMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}

	return "検証に失敗しました: " + tag
}

func sizeUnit(kind reflect.Kind) string {
	switch kind { //nolint:exhaustive // only sized kinds need a unit
	case reflect.String:
		return "文字"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "件"
	default:
		return ""
	}
}
