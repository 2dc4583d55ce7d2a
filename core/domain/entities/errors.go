package entities

import "errors"

var (
	// ErrInvalidSelection is returned when adapter names are missing or identical
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrQueryFailure is returned when the adapter directory could not answer
	ErrQueryFailure = errors.New("adapter query failed")
	// ErrActionFailure is returned when enabling or disabling an adapter failed
	ErrActionFailure = errors.New("adapter action failed")
	// ErrPersistenceFailure is returned when the selection could not be read or written
	ErrPersistenceFailure = errors.New("selection persistence failed")
	// ErrToggleInProgress is returned when a toggle is requested while another one runs
	ErrToggleInProgress = errors.New("toggle already in progress")
	// ErrAdapterNotFound is returned when a name is not present in the directory
	ErrAdapterNotFound = errors.New("adapter not found")
)

// ElevationHint is appended to action failures shown to users
const ElevationHint = "make sure you run this tool with administrator rights"
