package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "gohotel/internal/errors"
)

// Validator envolve o validator.Validate e devolve ValidationError com os
// nomes de campo do JSON.
type Validator struct {
	v *validator.Validate
}

// New cria um Validator que usa as tags json como nome dos campos.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida s pelas tags validate. Nil significa válido.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return &apperror.ValidationError{Msg: err.Error(), Err: err}
	}

	root := reflect.TypeOf(s)
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldPath(root, fe), message(fe)))
	}
	return &apperror.ValidationError{Msg: strings.Join(msgs, "; "), Err: err}
}

// Var valida um valor isolado, como um e-mail vindo da URL.
func (val *Validator) Var(field string, value interface{}, tag string) error {
	err := val.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &apperror.ValidationError{Msg: fmt.Sprintf("%s: %s", field, message(fieldErrs[0])), Err: err}
	}
	return &apperror.ValidationError{Msg: fmt.Sprintf("%s: valor inválido", field), Err: err}
}

// fieldPath monta o caminho do campo como ele aparece no JSON: sem o tipo
// raiz e sem structs embutidas, que o encoding/json achata
// ("Client.Person.cedula" vira "cedula").
func fieldPath(root reflect.Type, fe validator.FieldError) string {
	structNS := strings.Split(fe.StructNamespace(), ".")
	jsonNS := strings.Split(fe.Namespace(), ".")
	if len(structNS) != len(jsonNS) || len(jsonNS) < 2 {
		return fe.Field()
	}

	t := indirect(root)
	parts := make([]string, 0, len(jsonNS)-1)
	for i := 1; i < len(structNS); i++ {
		name := structNS[i]
		if j := strings.IndexByte(name, '['); j >= 0 {
			name = name[:j]
		}

		if t != nil && t.Kind() == reflect.Struct {
			if f, ok := t.FieldByName(name); ok {
				t = indirect(f.Type)
				if f.Anonymous && i < len(structNS)-1 {
					continue
				}
			} else {
				t = nil
			}
		}
		parts = append(parts, jsonNS[i])
	}
	return strings.Join(parts, ".")
}

// indirect desce por ponteiros, slices e mapas até o tipo do elemento.
func indirect(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
	return t
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "formato de e-mail inválido"
	case "max":
		if fe.Kind() == reflect.String {
			return "deve ter no máximo " + fe.Param() + " caracteres"
		}
		return "deve ser no máximo " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "deve ter pelo menos " + fe.Param() + " caracteres"
		}
		return "deve ser pelo menos " + fe.Param()
	case "gt":
		return "deve ser maior que " + fe.Param()
	case "gte":
		return "deve ser maior ou igual a " + fe.Param()
	case "fqdn", "hostname":
		return "domínio inválido"
	default:
		return "valor inválido"
	}
}
