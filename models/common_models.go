package models

// Response status constants
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
