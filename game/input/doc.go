// Package input turns player input into snake turns and session commands.
//
// A Router accepts browser key names, on-screen button names and touch
// swipes. Turn requests go straight to the pending direction of the target
// (the engine rejects reversals at the next tick); everything else comes
// back as a Command for the session to apply.
//
// Event is the JSON form clients send over the WebSocket or REST API.
// KeyboardHandler reads raw terminal keys through github.com/eiannone/keyboard
// and KeyName maps them onto the same names the browser uses.
package input
