package customvalidator

import (
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Janela de coordenadas plausível para a região de atuação do órgão
// (Roraima e entorno). Submissões fora dela são bloqueadas no cadastro
// de ocorrências externas.
const (
	LatitudeMin  = 0.0
	LatitudeMax  = 5.5
	LongitudeMin = -64.0
	LongitudeMax = -59.0
)

// RegisterCustomValidations registra as regras de domínio no validador.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("cpf", isValidCPF); err != nil {
		return err
	}
	if err := v.RegisterValidation("latitude_rr", isLatitudeInRange); err != nil {
		return err
	}
	if err := v.RegisterValidation("longitude_rr", isLongitudeInRange); err != nil {
		return err
	}
	if err := v.RegisterValidation("telefone_br", isTelefoneBR); err != nil {
		return err
	}
	return nil
}

var telefoneRegex = regexp.MustCompile(`^\(?\d{2}\)?\s?9?\d{4}-?\d{4}$`)

func isTelefoneBR(fl validator.FieldLevel) bool {
	return telefoneRegex.MatchString(fl.Field().String())
}

func fieldAsFloat(fl validator.FieldLevel) (float64, bool) {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		return field.Float(), true
	case reflect.Ptr:
		if field.IsNil() {
			return 0, false
		}
		return field.Elem().Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(field.String(), 64)
		return f, err == nil
	}
	return 0, false
}

func isLatitudeInRange(fl validator.FieldLevel) bool {
	lat, ok := fieldAsFloat(fl)
	if !ok {
		// campo ausente é tratado pelo required condicional
		return true
	}
	return lat >= LatitudeMin && lat <= LatitudeMax
}

func isLongitudeInRange(fl validator.FieldLevel) bool {
	lon, ok := fieldAsFloat(fl)
	if !ok {
		return true
	}
	return lon >= LongitudeMin && lon <= LongitudeMax
}

var cpfNonDigits = regexp.MustCompile(`\D`)

// isValidCPF valida o dígito verificador do CPF.
func isValidCPF(fl validator.FieldLevel) bool {
	cpf := cpfNonDigits.ReplaceAllString(fl.Field().String(), "")
	if len(cpf) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digit := func(upTo int) int {
		sum := 0
		for i := 0; i < upTo; i++ {
			sum += int(cpf[i]-'0') * (upTo + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return rest
	}

	return digit(9) == int(cpf[9]-'0') && digit(10) == int(cpf[10]-'0')
}
