package user

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
)

func TestPasswordPolicyViolation(t *testing.T) {
	commonPasswords = []string{"passw0rd!", "qwerty123!"}
	t.Cleanup(func() { commonPasswords = nil })

	tests := []struct {
		name  string
		pwd   string
		uname string
		want  string
	}{
		{name: "too short", pwd: "Ab1!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 123!", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no upper", pwd: "abcd123!x", want: pwdComplexityTag},
		{name: "no special", pwd: "Abcd1234x", want: pwdComplexityTag},
		{name: "similar to username", pwd: "Registrar1!", uname: "registrar", want: pwdAttrSimTag},
		{name: "common", pwd: "Passw0rd!", want: pwdNoCommonTag},
		{name: "valid", pwd: "Kp9#vWq2Lm", uname: "registrar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PasswordPolicyViolation(tt.pwd, tt.uname); got != tt.want {
				t.Errorf("PasswordPolicyViolation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewUserValidation(t *testing.T) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	err := validate.Struct(NewUser{Username: "office", Password: "Kp9#vWq2Lm", PasswordConfirm: "Kp9#vWq2Lm"})
	assert.NoError(t, err)

	err = validate.Struct(NewUser{Username: "off ice", Password: "short", PasswordConfirm: "other"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	tags := map[string]string{}
	for _, fe := range verrs {
		tags[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, alphaNumUnderTag, tags["username"])
	assert.Equal(t, "eqfield", tags["passwordConfirm"])
	assert.Equal(t, pwdMinLenTag, tags["password"])
	assert.Contains(t, verrs.Translate(translator), "NewUser.password")
}
