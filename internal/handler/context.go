package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	ShiftIDCtx   ContextKey = "shiftID"
	TimeOffIDCtx ContextKey = "timeOffID"
)
