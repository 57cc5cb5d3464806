package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength longitud mínima aceptada para contraseñas nuevas.
const MinLength = 8

// ErrTooShort la contraseña no alcanza MinLength.
var ErrTooShort = errors.New("la contraseña debe tener al menos 8 caracteres")

// Hash valida la longitud y devuelve el hash bcrypt.
func Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrTooShort
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Check compara la contraseña con el hash almacenado.
func Check(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
