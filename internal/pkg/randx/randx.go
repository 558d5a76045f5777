/*
Package randx provides functions for generating cryptographically secure random strings and unique identifiers.

It is used to generate default display names for newly provisioned users and
object keys for uploaded media.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// MediaKeyPrefix is the object key prefix under which uploaded chat media is stored.
	MediaKeyPrefix = "media/"

	// DisplayNameRandomLength is the number of random Base62 characters in a generated display name.
	DisplayNameRandomLength = 6
)

// Base62 returns a random Base62 string of the given length using crypto/rand.
func Base62(length int) (string, error) {
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// DisplayName generates a random display name with a "User_" prefix and 6 random Base62 characters.
func DisplayName() (string, error) {
	suffix, err := Base62(DisplayNameRandomLength)
	if err != nil {
		return "", err
	}

	return "User_" + suffix, nil
}

// MediaKey builds a unique object key for an uploaded file. ext must include the leading dot.
func MediaKey(ext string) string {
	return MediaKeyPrefix + uuid.New().String() + strings.ToLower(ext)
}

// IsValidMediaKey checks that key was produced by MediaKey: the media prefix, a UUID, and an extension.
func IsValidMediaKey(key string) bool {
	rest, ok := strings.CutPrefix(key, MediaKeyPrefix)
	if !ok {
		return false
	}

	id, ext, found := strings.Cut(rest, ".")
	if !found || ext == "" || strings.ContainsAny(ext, "/.") {
		return false
	}

	_, err := uuid.Parse(id)
	return err == nil
}
