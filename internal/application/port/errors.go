package port

import "errors"

// ErrPromptDeclined is returned by SavePrompt when the user picks no destination.
var ErrPromptDeclined = errors.New("save prompt declined")
