package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used by the context helpers
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// ctxUint extracts a numeric value stored in echo.Context under the
// given key and converts it to uint64.  JWT claims arrive as strings
// or float64 depending on how the token was built, so both are
// accepted.
func ctxUint(c echo.Context, key string) (uint64, error) {
	v := c.Get(key)
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid " + key + " in context")
}

// getUserID extracts the authenticated user's id from the context.
func getUserID(c echo.Context) (uint64, error) {
	return ctxUint(c, "user_id")
}

// getSchoolID extracts the school claim placed by the JWT middleware.
func getSchoolID(c echo.Context) (uint64, error) {
	return ctxUint(c, "school_id")
}
