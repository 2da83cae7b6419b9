package commands

import "github.com/spf13/cobra"

// All returns every studio command bound to app, in help order
func All(app *AppContext) []*cobra.Command {
	return []*cobra.Command{
		LoginCmd(app),
		LogoutCmd(app),
		WhoamiCmd(app),

		WeekCmd(app),
		NextCmd(app),
		PrevCmd(app),
		TodayCmd(app),
		LoopCmd(app),
		FocusCmd(app),
		EventCmd(app),
		DeleteEventCmd(app),

		SignupCmd(app),
		WithdrawCmd(app),

		EditClassCmd(app),
		DeleteClassCmd(app),
		RestoreClassCmd(app),
		AddToClassCmd(app),
		RemoveFromClassCmd(app),
		SetPositionCmd(app),

		CreditsCmd(app),
		CreditSheetCmd(app),
		ExportCreditsCmd(app),
		RemoveCreditCmd(app),

		UsersCmd(app),
		CreateUserCmd(app),
		EditUserCmd(app),
		DeleteUserCmd(app),
		ProfileCmd(app),

		InteractiveCmd(app),
	}
}
