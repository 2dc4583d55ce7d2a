package entities

// AuthPrompt represents a prompt-response pair during a shell login
type AuthPrompt struct {
	WaitFor string // prompt to wait for
	SendCmd string // line to send (empty means just wait)
}
