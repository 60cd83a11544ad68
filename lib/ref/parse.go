// Copyright 2026 The Altalias Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// parseMatrixID extracts localpart and server from @localpart:server.
func parseMatrixID(matrixID string) (localpart, server string, err error) {
	return parsePrefixedID(matrixID, '@', "user ID")
}

// parseRoomAlias extracts localpart and server from #localpart:server.
func parseRoomAlias(alias string) (localpart, server string, err error) {
	return parsePrefixedID(alias, '#', "room alias")
}

// parsePrefixedID extracts localpart and server from a Matrix identifier
// with the given sigil prefix (@ for user IDs, # for room aliases). Each
// structural violation produces a distinct error so callers can report
// exactly which rule was broken.
func parsePrefixedID(identifier string, sigil byte, kind string) (localpart, server string, err error) {
	if identifier == "" {
		return "", "", fmt.Errorf("%s is empty", kind)
	}
	if identifier[0] != sigil {
		return "", "", fmt.Errorf("%s %q must start with %q", kind, identifier, string(sigil))
	}
	colonIndex := strings.IndexByte(identifier[1:], ':')
	if colonIndex < 0 {
		return "", "", fmt.Errorf("%s %q is missing the ':server' separator", kind, identifier)
	}
	colonIndex++ // adjust for the [1:] offset
	if colonIndex < 2 {
		return "", "", fmt.Errorf("%s %q has an empty localpart", kind, identifier)
	}
	localpart = identifier[1:colonIndex]
	server = identifier[colonIndex+1:]
	if server == "" {
		return "", "", fmt.Errorf("%s %q has an empty server name", kind, identifier)
	}
	return localpart, server, nil
}
