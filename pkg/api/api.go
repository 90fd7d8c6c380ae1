// Package api defines the familysafe.v1 wire messages.
//
// Messages are plain Go structs carried by the JSON codec in this package.
// 64-bit amounts are encoded as JSON strings so JavaScript clients keep
// full precision.
package api

// Event is a committed safe notification.
type Event struct {
	Id      string `json:"id"`
	Seq     int64  `json:"seq,string"`
	Kind    string `json:"kind"`
	Address string `json:"address"`
	Amount  uint64 `json:"amount,string"`
	Time    int64  `json:"time,string"`
}

// Member is an entry in the registry.
type Member struct {
	Address string `json:"address"`
	AddedAt int64  `json:"added_at,string"`
}

// AddressFlow is the value one address moved through the safe.
type AddressFlow struct {
	Address   string `json:"address"`
	Deposited uint64 `json:"deposited,string"`
	Withdrawn uint64 `json:"withdrawn,string"`
}

// Summary aggregates the event journal.
type Summary struct {
	Balance        uint64        `json:"balance,string"`
	TotalDeposited uint64        `json:"total_deposited,string"`
	TotalWithdrawn uint64        `json:"total_withdrawn,string"`
	Deposits       int32         `json:"deposits"`
	Withdrawals    int32         `json:"withdrawals"`
	MembersAdded   int32         `json:"members_added"`
	Flows          []AddressFlow `json:"flows"`
}

// Account is the public view of a login.
type Account struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at,string"`
}

type DepositRequest struct {
	Amount uint64 `json:"amount,string"`
}

type DepositResponse struct {
	Event *Event `json:"event"`
}

type WithdrawRequest struct {
	// Receiver defaults to the caller when empty.
	Receiver string `json:"receiver,omitempty"`
	Amount   uint64 `json:"amount,string"`
}

type WithdrawResponse struct {
	Event *Event `json:"event"`
}

type WithdrawAllRequest struct {
	// Receiver defaults to the caller when empty.
	Receiver string `json:"receiver,omitempty"`
}

type WithdrawAllResponse struct {
	Event *Event `json:"event"`
}

type AddFamilyMemberRequest struct {
	Member string `json:"member"`
}

type AddFamilyMemberResponse struct {
	Event *Event `json:"event"`
}

type IsFamilyMemberRequest struct {
	Address string `json:"address"`
}

type IsFamilyMemberResponse struct {
	IsMember bool `json:"is_member"`
}

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Balance uint64 `json:"balance,string"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type ListEventsRequest struct {
	AfterSeq int64 `json:"after_seq,string,omitempty"`
	Limit    int32 `json:"limit,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}

type RegisterRequest struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type LoginRequest struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type GetCurrentAccountRequest struct{}

type GetCurrentAccountResponse struct {
	Account *Account `json:"account"`
}
