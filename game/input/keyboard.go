package input

import (
	"github.com/eiannone/keyboard"
)

// KeyboardHandler reads keys from the terminal
type KeyboardHandler struct {
	inputChan chan KeyInput
	done      chan struct{}
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
		done:      make(chan struct{}),
	}
}

// Start puts the terminal in raw mode and begins listening for keys
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case h.inputChan <- KeyInput{Char: char, Key: key}:
			case <-h.done:
				return
			}
		}
	}()

	return nil
}

// Stop restores the terminal
func (h *KeyboardHandler) Stop() {
	close(h.done)
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// KeyName converts a terminal key to the browser key name understood by Router.Key
func KeyName(in KeyInput) string {
	switch in.Key {
	case keyboard.KeyArrowUp:
		return "ArrowUp"
	case keyboard.KeyArrowDown:
		return "ArrowDown"
	case keyboard.KeyArrowLeft:
		return "ArrowLeft"
	case keyboard.KeyArrowRight:
		return "ArrowRight"
	case keyboard.KeySpace:
		return " "
	}
	if in.Char != 0 {
		return string(in.Char)
	}
	return ""
}

// IsQuit checks if the input is a quit command
func IsQuit(in KeyInput) bool {
	return in.Char == 'q' || in.Char == 'Q' || in.Key == keyboard.KeyEsc || in.Key == keyboard.KeyCtrlC
}

// IsRestart checks if the input is a restart command
func IsRestart(in KeyInput) bool {
	return in.Char == 'r' || in.Char == 'R'
}
