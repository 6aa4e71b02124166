package querylog

import "errors"

// Store-level error sentinels shared by every backend.
var (
	ErrQueryLogNotFound = errors.New("query log not found")
	ErrDuplicateQuery   = errors.New("query log already exists")
)
