package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type genderPayload struct {
	Gender string `json:"gender" validate:"required,is-gender"`
}

type phonePayload struct {
	Phone string `json:"phone" validate:"required,is-phone"`
}

type codePayload struct {
	Code string `json:"code" validate:"required,is-code"`
}

func TestGenderRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&genderPayload{Gender: "male"}))
	assert.NoError(t, v.Validate(&genderPayload{Gender: "female"}))
	assert.Error(t, v.Validate(&genderPayload{Gender: "other"}))
	assert.Error(t, v.Validate(&genderPayload{Gender: "MALE"}))
	assert.Error(t, v.Validate(&genderPayload{}))
}

func TestPhoneRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&phonePayload{Phone: "+48123456789"}))
	assert.NoError(t, v.Validate(&phonePayload{Phone: "1234567"}))
	assert.Error(t, v.Validate(&phonePayload{Phone: "12345"}))
	assert.Error(t, v.Validate(&phonePayload{Phone: "abc1234567"}))
	assert.Error(t, v.Validate(&phonePayload{Phone: "+48 123 456 789"}))
}

func TestCodeRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&codePayload{Code: "1234"}))
	assert.NoError(t, v.Validate(&codePayload{Code: "0000"}))
	assert.Error(t, v.Validate(&codePayload{Code: "123"}))
	assert.Error(t, v.Validate(&codePayload{Code: "12345"}))
	assert.Error(t, v.Validate(&codePayload{Code: "12a4"}))
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&genderPayload{Gender: "other"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Клиент видит имя поля из json-тега
	assert.Contains(t, vErr.Errors, "gender")
}
