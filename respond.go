package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the single response shape for every endpoint, success or
// failure, so clients need one decoding path.
type envelope struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{Status: status, Data: data, Message: message})
}

// apiError carries an HTTP status alongside the message. Handlers return
// these from helpers; fail maps anything else to a 500.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errInvalidInput(msg string) *apiError { return &apiError{http.StatusBadRequest, msg} }
func errUnauthenticated(msg string) *apiError { return &apiError{http.StatusUnauthorized, msg} }
func errForbidden(msg string) *apiError { return &apiError{http.StatusForbidden, msg} }
func errNotFound(msg string) *apiError { return &apiError{http.StatusNotFound, msg} }
func errConflict(msg string) *apiError { return &apiError{http.StatusConflict, msg} }
func errUpstream(msg string) *apiError { return &apiError{http.StatusInternalServerError, msg} }

// fail writes the uniform error envelope and stops the handler chain.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	if ae, ok := err.(*apiError); ok {
		status = ae.status
		message = ae.message
	}
	c.Abort()
	respond(c, status, nil, message)
}
