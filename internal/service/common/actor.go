//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// Actor identifies who or what is running a suite binary.
type Actor struct {
	// Hostname is the machine the binary runs on.
	Hostname string
	// Username is the system user the binary runs as.
	Username string
}

// String formats the actor as username@hostname for logs.
func (a *Actor) String() string {
	return fmt.Sprintf("%s@%s", a.Username, a.Hostname)
}

// DetectActor gathers host and user information for audit logging.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
