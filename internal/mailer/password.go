package mailer

import (
	"crypto/rand"
	"math/big"
)

const tempPasswordLength = 16

var passwordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnpqrstuvwxyz",
	"23456789",
	"!@#$%^&*-_=+",
}

// GenerateTempPassword returns a 16-character temporary password containing
// at least one uppercase letter, one lowercase letter, one digit, and one
// symbol, shuffled so the class positions are not predictable.
func GenerateTempPassword() (string, error) {
	chars := make([]byte, 0, tempPasswordLength)

	// One guaranteed draw per class.
	for _, class := range passwordClasses {
		ch, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, ch)
	}

	// Remaining positions draw from the union of all classes.
	var all string
	for _, class := range passwordClasses {
		all += class
	}
	for len(chars) < tempPasswordLength {
		ch, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, ch)
	}

	// Fisher–Yates shuffle.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars), nil
}

func randomChar(class string) (byte, error) {
	i, err := randomInt(len(class))
	if err != nil {
		return 0, err
	}
	return class[i], nil
}

func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
