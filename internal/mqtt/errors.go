package mqtt

import "errors"

var (
	// ErrConnectionFailed is returned when the initial broker connection fails.
	ErrConnectionFailed = errors.New("mqtt connection failed")
	// ErrNotConnected is returned when an operation requires a live connection.
	ErrNotConnected = errors.New("mqtt client not connected")
	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("mqtt topic must be provided")
	// ErrPublishFailed is returned when a publish times out or is rejected.
	ErrPublishFailed = errors.New("mqtt publish failed")
	// ErrSubscribeFailed is returned when a subscription times out or is rejected.
	ErrSubscribeFailed = errors.New("mqtt subscribe failed")
)
