//go:build !darwin

package credentials

import "fmt"

func SecretFromKeychain(service, account string) (string, error) {
	return "", fmt.Errorf("keychain access is only supported on macOS")
}
