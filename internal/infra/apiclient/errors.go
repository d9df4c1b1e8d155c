package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ConnectivityError means the request never got an answer from the service:
// DNS, refused connection, timeout or a body that could not be read.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: service unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ServiceError is a non-2xx answer from the service.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%d: %s", e.Status, msg)
}

// IsConnectivity reports whether err came from an unreachable service.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// IsNotFound reports a 404 from the service.
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}
