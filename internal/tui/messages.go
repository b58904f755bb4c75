package tui

import (
	"github.com/MKhiriev/orchestra/models"
)

// NavigateTo switches the active page of [RootModel]. Payload, when set, is
// delivered to the new page as the next message.
type NavigateTo struct {
	Page    string
	Payload any
}

// LoginResult finishes the login flow when Err is nil.
type LoginResult struct {
	User models.User
	Err  error
}

// RegisterResult is produced by the register page.
type RegisterResult struct {
	User models.User
	Err  error
}

type metricsMsg models.Metrics

type jobStartedMsg struct {
	job models.Job
	err error
}

type lastJobMsg struct {
	job models.TrackedJob
}

type jobUpdateMsg models.Job

type jobDoneMsg models.Job

type jobErrMsg struct {
	err error
}

type userRefreshedMsg struct {
	user models.User
	err  error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

type tickMsg struct{}
