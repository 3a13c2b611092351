/* utils.go
 * Utility functions used across the application
 * Authors: Zachary Bower
 */

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseBoolFlag parses a true/false flag value, tolerating surrounding
// whitespace and any casing
// Preconditions: Receives the flag's string value
// Postconditions: Returns the boolean value, or an error for anything
// strconv.ParseBool does not recognise
func parseBoolFlag(str string) (bool, error) {
	value, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(str)))
	if err != nil {
		return false, fmt.Errorf("invalid boolean string %q", str)
	}
	return value, nil
}
