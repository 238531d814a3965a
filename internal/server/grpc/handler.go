package grpc

import (
	"context"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) check(req any) error {
	if err := validate.Struct(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

// fail logs err and converts it to a status. Only errors that end up as
// Internal are logged at error level.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "operation failed", "op", op, "error", err)
	} else {
		s.logger.Info(ctx, "operation rejected", "op", op, "reason", err.Error())
	}
	return st
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	account, err := s.accounts.Register(ctx, services.Registration{
		Email:     req.Email,
		Nickname:  req.Nickname,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return nil, s.fail(ctx, MethodRegister, err)
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return &RegisterResponse{AccountID: account.ID}, nil
}

func (s *GRPCServer) Activate(ctx context.Context, req *ActivateRequest) (*Empty, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.accounts.Activate(ctx, req.AccountID, req.Code); err != nil {
		return nil, s.fail(ctx, MethodActivate, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	token, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, MethodLogin, err)
	}
	return &LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *Empty) (*AccountResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return &AccountResponse{Account: toAccount(p.Account())}, nil
}

func (s *GRPCServer) SendFriendRequest(ctx context.Context, req *HandleRequest) (*SendFriendRequestResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	outcome, err := s.relationships.SendRequest(ctx, p, req.Nickname)
	if err != nil {
		return nil, s.fail(ctx, MethodSendFriendRequest, err)
	}
	return &SendFriendRequestResponse{Outcome: outcome.String()}, nil
}

func (s *GRPCServer) AcceptFriendRequest(ctx context.Context, req *HandleRequest) (*Empty, error) {
	return s.answer(ctx, MethodAcceptFriendRequest, req, s.relationships.AcceptRequest)
}

func (s *GRPCServer) RejectFriendRequest(ctx context.Context, req *HandleRequest) (*Empty, error) {
	return s.answer(ctx, MethodRejectFriendRequest, req, s.relationships.RejectRequest)
}

func (s *GRPCServer) answer(ctx context.Context, op string, req *HandleRequest,
	fn func(context.Context, *services.Principal, string) error) (*Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := fn(ctx, p, req.Nickname); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListFriends(ctx context.Context, req *ListRequest) (*AccountsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	list, err := s.relationships.ListFriends(ctx, p, req.Page.model())
	if err != nil {
		return nil, s.fail(ctx, MethodListFriends, err)
	}
	return &AccountsResponse{Accounts: toAccounts(list)}, nil
}

func (s *GRPCServer) ListPendingRequests(ctx context.Context, req *ListRequest) (*AccountsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	list, err := s.relationships.ListPendingReceived(ctx, p, req.Page.model())
	if err != nil {
		return nil, s.fail(ctx, MethodListPendingRequests, err)
	}
	return &AccountsResponse{Accounts: toAccounts(list)}, nil
}

func (s *GRPCServer) SearchCandidates(ctx context.Context, req *SearchRequest) (*AccountsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	list, err := s.relationships.SearchCandidates(ctx, p, req.Query, req.Page.model())
	if err != nil {
		return nil, s.fail(ctx, MethodSearchCandidates, err)
	}
	return &AccountsResponse{Accounts: toAccounts(list)}, nil
}

func (s *GRPCServer) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	room, err := s.rooms.CreateRoom(ctx, p, req.Name)
	if err != nil {
		return nil, s.fail(ctx, MethodCreateRoom, err)
	}
	return &RoomResponse{Room: toRoom(room)}, nil
}

func (s *GRPCServer) DeleteRoom(ctx context.Context, req *RoomRequest) (*Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := s.rooms.DeleteRoom(ctx, p, req.RoomID); err != nil {
		return nil, s.fail(ctx, MethodDeleteRoom, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) AddParticipant(ctx context.Context, req *ParticipantRequest) (*RoomResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	room, err := s.rooms.AddParticipant(ctx, p, req.RoomID, req.Nickname)
	if err != nil {
		return nil, s.fail(ctx, MethodAddParticipant, err)
	}
	return &RoomResponse{Room: toRoom(room)}, nil
}

func (s *GRPCServer) RemoveParticipant(ctx context.Context, req *ParticipantRequest) (*RoomResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	room, err := s.rooms.RemoveParticipant(ctx, p, req.RoomID, req.Nickname)
	if err != nil {
		return nil, s.fail(ctx, MethodRemoveParticipant, err)
	}
	return &RoomResponse{Room: toRoom(room)}, nil
}

func (s *GRPCServer) ListOwnedRooms(ctx context.Context, _ *Empty) (*RoomsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.rooms.ListOwned(ctx, p)
	if err != nil {
		return nil, s.fail(ctx, MethodListOwnedRooms, err)
	}
	return &RoomsResponse{Rooms: toRooms(list)}, nil
}

func (s *GRPCServer) ListRooms(ctx context.Context, _ *Empty) (*RoomsResponse, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.rooms.ListBelonging(ctx, p)
	if err != nil {
		return nil, s.fail(ctx, MethodListRooms, err)
	}
	return &RoomsResponse{Rooms: toRooms(list)}, nil
}

func (s *GRPCServer) SetAccountLocked(ctx context.Context, req *SetAccountFlagRequest) (*Empty, error) {
	return s.setFlag(ctx, MethodSetAccountLocked, req, s.accounts.SetLocked)
}

func (s *GRPCServer) SetAccountEnabled(ctx context.Context, req *SetAccountFlagRequest) (*Empty, error) {
	return s.setFlag(ctx, MethodSetAccountEnabled, req, s.accounts.SetEnabled)
}

func (s *GRPCServer) setFlag(ctx context.Context, op string, req *SetAccountFlagRequest,
	fn func(context.Context, string, bool) error) (*Empty, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasRole(common.AdminRole) {
		return nil, status.Error(codes.PermissionDenied, "admin role required")
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := fn(ctx, req.AccountID, req.Value); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "account flag changed", "op", op, "account_id", req.AccountID, "value", req.Value, "by", p.ID())
	return &Empty{}, nil
}
