package session

// RefreshError reports a failed token renewal. Err is the underlying cause.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "Error renewing token: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
