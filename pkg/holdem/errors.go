package holdem

// UserError is an error that is safe to show to the player
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// errors a player can cause
var (
	ErrWrongTurn         = UserError("Wrong user has made a move")
	ErrNotYetSeated      = UserError("Not yet seated")
	ErrCheckNotAllowed   = UserError("Check not allowed, replay please")
	ErrAlreadySeated     = UserError("Already playing at another table")
	ErrTableFull         = UserError("Maximum players alread seated.")
	ErrInvalidBuyin      = UserError("Buy-in is outside of the table limits")
	ErrInvalidAmount     = UserError("Bet must be greater than zero")
	ErrInsufficientFunds = UserError("Not enough money in the bank")
	ErrHandNotActive     = UserError("No hand is in progress")
	ErrNotInGame         = UserError("Not in an active game")
	ErrTableNotFound     = UserError("Table not found")
)
