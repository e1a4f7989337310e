// Package validate expone un validador compartido para los DTOs de entrada.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct valida un DTO con sus tags `validate`. Devuelve un error legible
// con los campos fallidos, apto para responder 400 al cliente.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("campos inválidos: %s", strings.Join(fields, ", "))
}

// Var valida un valor suelto contra un tag (ej. "required,email").
func Var(field interface{}, tag string) error {
	return v.Var(field, tag)
}
