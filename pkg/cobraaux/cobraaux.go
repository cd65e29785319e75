package cobraaux

import "github.com/spf13/cobra"

// RegisterCommand adds child to parent so that the parent's
// PersistentPreRunE still runs for the child. Cobra executes only the
// closest PersistentPreRunE on the command path, so the chaining is explicit
// here.
func RegisterCommand(parent, child *cobra.Command) {
	childPreRun := child.PersistentPreRunE
	child.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if parent.PersistentPreRunE != nil {
			if err := parent.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
		}
		if childPreRun != nil {
			return childPreRun(cmd, args)
		}
		return nil
	}
	parent.AddCommand(child)
}
