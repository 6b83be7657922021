package commands

type Command interface {
	Name() string
}

type JoinTable struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TableID    string `json:"tableId"`
}

func (c JoinTable) Name() string { return "JOIN_TABLE" }

type LeaveTable struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (c LeaveTable) Name() string { return "LEAVE_TABLE" }

// SubmitAction carries fold, check, call, raise (or bet) and the raise amount
type SubmitAction struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

func (c SubmitAction) Name() string { return "SUBMIT_ACTION" }

type ToggleSitOut struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
	SitOut   bool   `json:"sitOut"`
}

func (c ToggleSitOut) Name() string { return "TOGGLE_SIT_OUT" }

type RequestRebuy struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (c RequestRebuy) Name() string { return "REQUEST_REBUY" }

type VoteToContinue struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (c VoteToContinue) Name() string { return "VOTE_TO_CONTINUE" }

// RequestView asks for the table as the player may see it
type RequestView struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (c RequestView) Name() string { return "REQUEST_VIEW" }
