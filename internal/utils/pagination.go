// Package utils provides the small parsing and bounding helpers behind the
// paginated listing endpoints (/requests, /signals, /terminals). Query
// parameters arrive as strings from spreadsheets' worth of clients, so the
// helpers favor a usable default over an error response.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	page := utils.AtoiDefault(c.Query("page"), 1)
//	size := utils.AtoiDefault(c.Query("page_size"), 50)
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampInt bounds n to [lo, hi]. Listing handlers use it to keep page numbers
// positive and page sizes under the response-size cap.
func ClampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
