package ledger

import "errors"

// ReloadState is the state of the reload confirmation flow.
type ReloadState string

const (
	Clean                     ReloadState = "clean"
	PendingReloadConfirmation ReloadState = "pendingReloadConfirmation"
)

// ErrNoPendingReload is returned when confirming or declining with nothing pending.
var ErrNoPendingReload = errors.New("no reload awaiting confirmation")

// ReloadGate holds a destructive reload until the user answers.
// The zero value is Clean.
type ReloadGate struct {
	pending bool
}

func (g *ReloadGate) State() ReloadState {
	if g.pending {
		return PendingReloadConfirmation
	}
	return Clean
}

// Request moves to PendingReloadConfirmation. Nothing is reloaded yet.
func (g *ReloadGate) Request() { g.pending = true }

// Confirm returns to Clean; the caller performs the reload.
func (g *ReloadGate) Confirm() error {
	if !g.pending {
		return ErrNoPendingReload
	}
	g.pending = false
	return nil
}

// Decline returns to Clean without reloading.
func (g *ReloadGate) Decline() error {
	if !g.pending {
		return ErrNoPendingReload
	}
	g.pending = false
	return nil
}
