package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/familysafe/internal/auth"
	"github.com/mmynk/familysafe/internal/calculator"
	"github.com/mmynk/familysafe/internal/metrics"
	"github.com/mmynk/familysafe/internal/middleware"
	"github.com/mmynk/familysafe/internal/models"
	"github.com/mmynk/familysafe/internal/safe"
	"github.com/mmynk/familysafe/internal/storage"
	"github.com/mmynk/familysafe/pkg/api"
	"github.com/mmynk/familysafe/pkg/api/apiconnect"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

var (
	errMissingMember = errors.New("member address is required")
	errNegativeSeq   = errors.New("after_seq must not be negative")
	errNegativeLimit = errors.New("limit must not be negative")
)

var _ apiconnect.SafeServiceHandler = (*SafeService)(nil)

// SafeService implements the Connect SafeService on top of a single safe.
type SafeService struct {
	safe    *safe.Safe
	store   storage.Store
	metrics *metrics.Metrics
}

// NewSafeService creates a SafeService. m may be nil.
func NewSafeService(s *safe.Safe, store storage.Store, m *metrics.Metrics) *SafeService {
	return &SafeService{safe: s, store: store, metrics: m}
}

// Deposit credits the caller's transfer to the safe.
func (s *SafeService) Deposit(ctx context.Context, req *connect.Request[api.DepositRequest]) (*connect.Response[api.DepositResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Deposit request received", "sender", caller, "amount", req.Msg.Amount)

	ev, err := s.safe.AcceptDeposit(ctx, caller, req.Msg.Amount)
	if err != nil {
		return nil, s.safeError("Deposit", err)
	}

	slog.Info("Deposit accepted", "event_id", ev.ID, "seq", ev.Seq)
	return connect.NewResponse(&api.DepositResponse{Event: eventToAPI(&ev)}), nil
}

// Withdraw pays an amount out to the receiver, defaulting to the caller.
func (s *SafeService) Withdraw(ctx context.Context, req *connect.Request[api.WithdrawRequest]) (*connect.Response[api.WithdrawResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	receiver := receiverOrCaller(req.Msg.Receiver, caller)
	slog.Info("Withdraw request received", "caller", caller, "receiver", receiver, "amount", req.Msg.Amount)

	ev, err := s.safe.Withdraw(ctx, caller, receiver, req.Msg.Amount)
	if err != nil {
		return nil, s.safeError("Withdraw", err)
	}

	slog.Info("Withdrawal paid", "event_id", ev.ID, "seq", ev.Seq)
	return connect.NewResponse(&api.WithdrawResponse{Event: eventToAPI(&ev)}), nil
}

// WithdrawAll empties the safe to the receiver, defaulting to the caller.
func (s *SafeService) WithdrawAll(ctx context.Context, req *connect.Request[api.WithdrawAllRequest]) (*connect.Response[api.WithdrawAllResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	receiver := receiverOrCaller(req.Msg.Receiver, caller)
	slog.Info("WithdrawAll request received", "caller", caller, "receiver", receiver)

	ev, err := s.safe.WithdrawAll(ctx, caller, receiver)
	if err != nil {
		return nil, s.safeError("WithdrawAll", err)
	}

	slog.Info("Safe emptied", "event_id", ev.ID, "seq", ev.Seq, "amount", ev.Amount)
	return connect.NewResponse(&api.WithdrawAllResponse{Event: eventToAPI(&ev)}), nil
}

// AddFamilyMember registers a new member on behalf of the caller.
func (s *SafeService) AddFamilyMember(ctx context.Context, req *connect.Request[api.AddFamilyMemberRequest]) (*connect.Response[api.AddFamilyMemberResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Member == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingMember)
	}
	member := models.Address(req.Msg.Member)
	slog.Info("AddFamilyMember request received", "caller", caller, "member", member)

	ev, err := s.safe.AddFamilyMember(ctx, caller, member)
	if err != nil {
		return nil, s.safeError("AddFamilyMember", err)
	}

	slog.Info("Family member added", "event_id", ev.ID, "member", member)
	return connect.NewResponse(&api.AddFamilyMemberResponse{Event: eventToAPI(&ev)}), nil
}

// IsFamilyMember reports membership of any address. It needs no caller.
func (s *SafeService) IsFamilyMember(ctx context.Context, req *connect.Request[api.IsFamilyMemberRequest]) (*connect.Response[api.IsFamilyMemberResponse], error) {
	return connect.NewResponse(&api.IsFamilyMemberResponse{
		IsMember: s.safe.IsFamilyMember(models.Address(req.Msg.Address)),
	}), nil
}

// GetBalance returns the current balance.
func (s *SafeService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return connect.NewResponse(&api.GetBalanceResponse{Balance: s.safe.Balance()}), nil
}

// ListMembers returns the registry with the time each member was added.
func (s *SafeService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		slog.Error("Failed to list members", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = &api.Member{Address: m.Address.String(), AddedAt: m.AddedAt}
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// ListEvents pages through the event journal in commit order.
func (s *SafeService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	if req.Msg.AfterSeq < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNegativeSeq)
	}
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errNegativeLimit)
	}
	limit := int(req.Msg.Limit)
	if limit == 0 {
		limit = defaultEventLimit
	}
	limit = min(limit, maxEventLimit)

	events, err := s.store.ListEvents(ctx, req.Msg.AfterSeq, limit)
	if err != nil {
		slog.Error("Failed to list events", "after_seq", req.Msg.AfterSeq, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Event, len(events))
	for i, ev := range events {
		out[i] = eventToAPI(ev)
	}
	return connect.NewResponse(&api.ListEventsResponse{Events: out}), nil
}

// GetSummary aggregates the whole journal.
func (s *SafeService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	events, err := s.store.ListEvents(ctx, 0, 0)
	if err != nil {
		slog.Error("Failed to load journal", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summary, err := calculator.Summarize(events)
	if err != nil {
		slog.Error("Journal does not replay", "error", err)
		return nil, connect.NewError(connect.CodeDataLoss, err)
	}

	return connect.NewResponse(&api.GetSummaryResponse{Summary: summaryToAPI(summary)}), nil
}

// safeError maps a safe error to a Connect error and counts the rejection.
func (s *SafeService) safeError(op string, err error) error {
	var (
		code   connect.Code
		reason string
	)
	switch {
	case errors.Is(err, safe.ErrUnauthorized):
		code, reason = connect.CodePermissionDenied, "unauthorized"
	case errors.Is(err, safe.ErrInsufficientFunds):
		code, reason = connect.CodeFailedPrecondition, "insufficient_funds"
	case errors.Is(err, safe.ErrTransferRejected):
		code, reason = connect.CodeAborted, "transfer_rejected"
	case errors.Is(err, safe.ErrBalanceOverflow):
		code, reason = connect.CodeOutOfRange, "balance_overflow"
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}

	slog.Warn(op+" rejected", "reason", reason, "error", err)
	if s.metrics != nil {
		s.metrics.Rejected(reason)
	}
	return connect.NewError(code, err)
}

func requireCaller(ctx context.Context) (models.Address, error) {
	caller := middleware.GetCaller(ctx)
	if caller == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return caller, nil
}

func receiverOrCaller(receiver string, caller models.Address) models.Address {
	if receiver == "" {
		return caller
	}
	return models.Address(receiver)
}

func eventToAPI(ev *models.Event) *api.Event {
	return &api.Event{
		Id:      ev.ID,
		Seq:     ev.Seq,
		Kind:    string(ev.Kind),
		Address: ev.Address.String(),
		Amount:  ev.Amount,
		Time:    ev.Time,
	}
}

func summaryToAPI(s calculator.Summary) *api.Summary {
	flows := make([]api.AddressFlow, len(s.Flows))
	for i, f := range s.Flows {
		flows[i] = api.AddressFlow{
			Address:   f.Address.String(),
			Deposited: f.Deposited,
			Withdrawn: f.Withdrawn,
		}
	}
	return &api.Summary{
		Balance:        s.Balance,
		TotalDeposited: s.TotalDeposited,
		TotalWithdrawn: s.TotalWithdrawn,
		Deposits:       int32(s.Deposits),
		Withdrawals:    int32(s.Withdrawals),
		MembersAdded:   int32(s.MembersAdded),
		Flows:          flows,
	}
}
