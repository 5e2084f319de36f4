// Package optimistic implements the apply-tentatively, commit-or-revert
// pattern used for local state that mirrors a remote mutation.
package optimistic

import "context"

// Tx is one optimistic mutation. Apply and Revert change local state only;
// Commit performs the remote call.
type Tx struct {
	Apply  func()
	Commit func(ctx context.Context) error
	Revert func()
}

// Do applies tx locally, then commits it. When Commit fails, Revert runs and
// the commit error is returned.
func Do(ctx context.Context, tx Tx) error {
	if tx.Apply != nil {
		tx.Apply()
	}
	if tx.Commit == nil {
		return nil
	}
	if err := tx.Commit(ctx); err != nil {
		if tx.Revert != nil {
			tx.Revert()
		}
		return err
	}
	return nil
}
