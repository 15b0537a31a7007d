package triggers

import "errors"

var (
	ErrInvalidTriggerConfig = errors.New("the trigger configuration is invalid")
)
