package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestCPF(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		CPF string `validate:"cpf"`
	}

	casos := []struct {
		cpf    string
		valido bool
	}{
		{"529.982.247-25", true},
		{"52998224725", true},
		{"529.982.247-26", false},
		{"111.111.111-11", false},
		{"123", false},
		{"", false},
	}
	for _, c := range casos {
		err := v.Struct(payload{CPF: c.cpf})
		if c.valido {
			assert.NoError(t, err, "cpf %q deveria ser válido", c.cpf)
		} else {
			assert.Error(t, err, "cpf %q deveria ser inválido", c.cpf)
		}
	}
}

func TestCoordenadas(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Latitude  float64 `validate:"latitude_rr"`
		Longitude float64 `validate:"longitude_rr"`
	}

	assert.NoError(t, v.Struct(payload{Latitude: 2.82, Longitude: -60.67}))
	assert.Error(t, v.Struct(payload{Latitude: -10.0, Longitude: -60.67}))
	assert.Error(t, v.Struct(payload{Latitude: 2.82, Longitude: -45.0}))

	// Limites da janela contam como dentro.
	assert.NoError(t, v.Struct(payload{Latitude: LatitudeMax, Longitude: LongitudeMin}))
}

func TestCoordenadasPonteiro(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Latitude *float64 `validate:"omitempty,latitude_rr"`
	}

	fora := 40.0
	dentro := 1.5
	assert.NoError(t, v.Struct(payload{}))
	assert.NoError(t, v.Struct(payload{Latitude: &dentro}))
	assert.Error(t, v.Struct(payload{Latitude: &fora}))
}

func TestTelefoneBR(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Telefone string `validate:"telefone_br"`
	}

	assert.NoError(t, v.Struct(payload{Telefone: "(95) 99123-4567"}))
	assert.NoError(t, v.Struct(payload{Telefone: "9591234567"}))
	assert.Error(t, v.Struct(payload{Telefone: "123"}))
	assert.Error(t, v.Struct(payload{Telefone: "abc"}))
}
