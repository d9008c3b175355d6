package tui

import "errors"

// ErrMissingProjectService is returned when the project service is not provided.
var ErrMissingProjectService = errors.New("tui: project service is required")

// ErrMissingPrototypeService is returned when the prototype service is not provided.
var ErrMissingPrototypeService = errors.New("tui: prototype service is required")
