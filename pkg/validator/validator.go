package validator

import (
	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo que falló la validación estructural.
type FieldError struct {
	Field string // ruta del campo (StructNamespace)
	Tag   string // regla que falló (required, min, oneof, ...)
	Param string
}

var validate = validator.New()

// ValidateStruct valida las etiquetas `validate` de un struct y devuelve
// la lista de campos fallidos (vacía si todo es válido).
func ValidateStruct(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "struct", Tag: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
