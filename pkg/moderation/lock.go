package moderation

import "sync/atomic"

// LockState restricts command usage to administrators while locked.
// The zero value is unlocked.
type LockState struct {
	locked atomic.Bool
}

// Locked reports whether only administrators may run commands
func (l *LockState) Locked() bool {
	return l.locked.Load()
}

// Lock locks the bot. It returns false if it was already locked.
func (l *LockState) Lock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Unlock unlocks the bot. It returns false if it was not locked.
func (l *LockState) Unlock() bool {
	return l.locked.CompareAndSwap(true, false)
}
