// Package errors provides custom error types for the evidence store.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type               │ HTTP   │ Description                         │
//	├──────────────────────────┼────────┼─────────────────────────────────────┤
//	│ InvalidArgumentError     │ 400    │ Malformed filter, paging or sort    │
//	│ UnauthorizedError        │ 401    │ Missing or invalid bearer token     │
//	│ ResourceNotFoundError    │ 404    │ Requested record doesn't exist      │
//	│ QueryError               │ 500    │ Statement composition/compilation   │
//	└──────────────────────────┴────────┴─────────────────────────────────────┘
//
// # InvalidArgumentError
//
// Returned before any SQL is composed when a filter combines predicates the
// category cannot serve together (for example a master entity id without its
// kind), when a sort property is not sortable, or when paging values are negative.
//
// Constructor:
//   - NewInvalidArgumentError(field, reason string)
//
// # QueryError
//
// Wraps a failure to compose a statement pair, or the store's rejection of a
// freshly composed statement when statement validation is enabled. A pair that
// produced a QueryError is never registered in the compiled query cache, so the
// next request of the same shape compiles again.
//
// Constructor:
//   - NewQueryError(category, key string, cause error)
//
// Execution failures (constraint violations, connectivity loss, timeouts) are
// not converted: they reach the caller wrapped with context only.
//
// # ResourceNotFoundError
//
// Constructors:
//   - NewResourceNotFoundError(kind string, id ...string)
//   - NewUserNotFoundError(username string)
//
// # UnauthorizedError
//
// Constructor:
//   - NewUnauthorizedError(reason string)
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("listing claims: %w", errors.NewInvalidArgumentError("sort", "unknown property"))
//	errors.IsInvalidArgumentError(wrapped) // returns true
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsInvalidArgumentError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	case errors.IsUnauthorizedError(err):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
//	case errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
