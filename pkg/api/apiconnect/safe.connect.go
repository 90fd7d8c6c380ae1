// Package apiconnect wires the familysafe.v1 services to Connect handlers
// and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/familysafe/pkg/api"
)

const (
	// SafeServiceName is the fully-qualified name of the SafeService service.
	SafeServiceName = "familysafe.v1.SafeService"
)

// Procedure paths for SafeService RPCs.
const (
	SafeServiceDepositProcedure         = "/familysafe.v1.SafeService/Deposit"
	SafeServiceWithdrawProcedure        = "/familysafe.v1.SafeService/Withdraw"
	SafeServiceWithdrawAllProcedure     = "/familysafe.v1.SafeService/WithdrawAll"
	SafeServiceAddFamilyMemberProcedure = "/familysafe.v1.SafeService/AddFamilyMember"
	SafeServiceIsFamilyMemberProcedure  = "/familysafe.v1.SafeService/IsFamilyMember"
	SafeServiceGetBalanceProcedure      = "/familysafe.v1.SafeService/GetBalance"
	SafeServiceListMembersProcedure     = "/familysafe.v1.SafeService/ListMembers"
	SafeServiceListEventsProcedure      = "/familysafe.v1.SafeService/ListEvents"
	SafeServiceGetSummaryProcedure      = "/familysafe.v1.SafeService/GetSummary"
)

// SafeServiceHandler is implemented by the server side of SafeService.
type SafeServiceHandler interface {
	Deposit(context.Context, *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error)
	Withdraw(context.Context, *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error)
	WithdrawAll(context.Context, *connect.Request[api.WithdrawAllRequest]) (*connect.Response[api.WithdrawAllResponse], error)
	AddFamilyMember(context.Context, *connect.Request[api.AddFamilyMemberRequest]) (*connect.Response[api.AddFamilyMemberResponse], error)
	IsFamilyMember(context.Context, *connect.Request[api.IsFamilyMemberRequest]) (*connect.Response[api.IsFamilyMemberResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSafeServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSafeServiceHandler(svc SafeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)

	handlers := map[string]http.Handler{
		SafeServiceDepositProcedure:         connect.NewUnaryHandler(SafeServiceDepositProcedure, svc.Deposit, opts...),
		SafeServiceWithdrawProcedure:        connect.NewUnaryHandler(SafeServiceWithdrawProcedure, svc.Withdraw, opts...),
		SafeServiceWithdrawAllProcedure:     connect.NewUnaryHandler(SafeServiceWithdrawAllProcedure, svc.WithdrawAll, opts...),
		SafeServiceAddFamilyMemberProcedure: connect.NewUnaryHandler(SafeServiceAddFamilyMemberProcedure, svc.AddFamilyMember, opts...),
		SafeServiceIsFamilyMemberProcedure:  connect.NewUnaryHandler(SafeServiceIsFamilyMemberProcedure, svc.IsFamilyMember, opts...),
		SafeServiceGetBalanceProcedure:      connect.NewUnaryHandler(SafeServiceGetBalanceProcedure, svc.GetBalance, opts...),
		SafeServiceListMembersProcedure:     connect.NewUnaryHandler(SafeServiceListMembersProcedure, svc.ListMembers, opts...),
		SafeServiceListEventsProcedure:      connect.NewUnaryHandler(SafeServiceListEventsProcedure, svc.ListEvents, opts...),
		SafeServiceGetSummaryProcedure:      connect.NewUnaryHandler(SafeServiceGetSummaryProcedure, svc.GetSummary, opts...),
	}
	return "/" + SafeServiceName + "/", route(handlers)
}

// SafeServiceClient is a client for the familysafe.v1.SafeService service.
type SafeServiceClient interface {
	Deposit(context.Context, *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error)
	Withdraw(context.Context, *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error)
	WithdrawAll(context.Context, *connect.Request[api.WithdrawAllRequest]) (*connect.Response[api.WithdrawAllResponse], error)
	AddFamilyMember(context.Context, *connect.Request[api.AddFamilyMemberRequest]) (*connect.Response[api.AddFamilyMemberResponse], error)
	IsFamilyMember(context.Context, *connect.Request[api.IsFamilyMemberRequest]) (*connect.Response[api.IsFamilyMemberResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSafeServiceClient constructs a client for the familysafe.v1.SafeService
// service. The baseURL is the server root, e.g. http://localhost:8080.
func NewSafeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SafeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &safeServiceClient{
		deposit:         connect.NewClient[api.DepositRequest, api.DepositResponse](httpClient, baseURL+SafeServiceDepositProcedure, opts...),
		withdraw:        connect.NewClient[api.WithdrawRequest, api.WithdrawResponse](httpClient, baseURL+SafeServiceWithdrawProcedure, opts...),
		withdrawAll:     connect.NewClient[api.WithdrawAllRequest, api.WithdrawAllResponse](httpClient, baseURL+SafeServiceWithdrawAllProcedure, opts...),
		addFamilyMember: connect.NewClient[api.AddFamilyMemberRequest, api.AddFamilyMemberResponse](httpClient, baseURL+SafeServiceAddFamilyMemberProcedure, opts...),
		isFamilyMember:  connect.NewClient[api.IsFamilyMemberRequest, api.IsFamilyMemberResponse](httpClient, baseURL+SafeServiceIsFamilyMemberProcedure, opts...),
		getBalance:      connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+SafeServiceGetBalanceProcedure, opts...),
		listMembers:     connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+SafeServiceListMembersProcedure, opts...),
		listEvents:      connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+SafeServiceListEventsProcedure, opts...),
		getSummary:      connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+SafeServiceGetSummaryProcedure, opts...),
	}
}

type safeServiceClient struct {
	deposit         *connect.Client[api.DepositRequest, api.DepositResponse]
	withdraw        *connect.Client[api.WithdrawRequest, api.WithdrawResponse]
	withdrawAll     *connect.Client[api.WithdrawAllRequest, api.WithdrawAllResponse]
	addFamilyMember *connect.Client[api.AddFamilyMemberRequest, api.AddFamilyMemberResponse]
	isFamilyMember  *connect.Client[api.IsFamilyMemberRequest, api.IsFamilyMemberResponse]
	getBalance      *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	listMembers     *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	listEvents      *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	getSummary      *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *safeServiceClient) Deposit(ctx context.Context, req *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error) {
	return c.deposit.CallUnary(ctx, req)
}

func (c *safeServiceClient) Withdraw(ctx context.Context, req *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error) {
	return c.withdraw.CallUnary(ctx, req)
}

func (c *safeServiceClient) WithdrawAll(ctx context.Context, req *connect.Request[api.WithdrawAllRequest]) (*connect.Response[api.WithdrawAllResponse], error) {
	return c.withdrawAll.CallUnary(ctx, req)
}

func (c *safeServiceClient) AddFamilyMember(ctx context.Context, req *connect.Request[api.AddFamilyMemberRequest]) (*connect.Response[api.AddFamilyMemberResponse], error) {
	return c.addFamilyMember.CallUnary(ctx, req)
}

func (c *safeServiceClient) IsFamilyMember(ctx context.Context, req *connect.Request[api.IsFamilyMemberRequest]) (*connect.Response[api.IsFamilyMemberResponse], error) {
	return c.isFamilyMember.CallUnary(ctx, req)
}

func (c *safeServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *safeServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *safeServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *safeServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// route dispatches requests to the handler registered for their exact path.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
