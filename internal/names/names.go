// Package names picks random, readable VM names such as "focused_turing".
package names

import (
	"fmt"

	"github.com/docker/docker/pkg/namesgenerator"
)

// defaultAttempts bounds GenerateUnique when no limit is given.
const defaultAttempts = 100

// generate is swapped in tests.
var generate = Generate

// Generate returns a random adjective_surname name.
func Generate() string {
	return namesgenerator.GetRandomName(0)
}

// GenerateUnique returns a name not in taken. It gives up after maxAttempts
// tries (defaultAttempts if maxAttempts <= 0).
func GenerateUnique(taken []string, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultAttempts
	}

	used := make(map[string]struct{}, len(taken))
	for _, n := range taken {
		used[n] = struct{}{}
	}

	for range maxAttempts {
		name := generate()
		if _, ok := used[name]; !ok {
			return name, nil
		}
	}

	return "", fmt.Errorf("no unused vm name after %d attempts", maxAttempts)
}
