package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// +221 77 000 00 00 / (01) 23-45 など
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-().]+$`)

// 入力チェック。echo.Validatorとしても使う
type Validator struct {
	v *validator.Validate
}

// 項目ごとのエラー
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DI
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーの項目名はjsonタグに合わせる
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})

	return &Validator{v: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// 電話番号らしいか（数字6〜15桁）
func IsPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !phonePattern.MatchString(s) {
		return false
	}
	n := len(Digits(s))
	return n >= 6 && n <= 15
}

// 数字だけを残す
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// 項目ごとのエラーに変換する
func Details(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// 先頭のエラーを1行にする
func Message(err error) string {
	d := Details(err)
	if len(d) == 0 {
		return "invalid input"
	}
	return d[0].Field + ": " + d[0].Message
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "uuid":
		return "invalid id"
	case "url":
		return "invalid url"
	case "phone":
		return "invalid phone number"
	case "gt", "gte":
		return "must be greater than or equal to " + e.Param()
	default:
		return "invalid value"
	}
}
