package consts

// Account-action token operations.
const (
	OperationConfirm       = "confirm"
	OperationResetPassword = "reset-password"
	OperationChangeEmail   = "change-email"
)

const (
	ApplicationName    = "Album Server"
	ApplicationVersion = "1.2.0"
)
