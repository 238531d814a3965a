package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "together.v1.Together"

const (
	MethodRegister            = "Register"
	MethodActivate            = "Activate"
	MethodLogin               = "Login"
	MethodMe                  = "Me"
	MethodSendFriendRequest   = "SendFriendRequest"
	MethodAcceptFriendRequest = "AcceptFriendRequest"
	MethodRejectFriendRequest = "RejectFriendRequest"
	MethodListFriends         = "ListFriends"
	MethodListPendingRequests = "ListPendingRequests"
	MethodSearchCandidates    = "SearchCandidates"
	MethodCreateRoom          = "CreateRoom"
	MethodDeleteRoom          = "DeleteRoom"
	MethodAddParticipant      = "AddParticipant"
	MethodRemoveParticipant   = "RemoveParticipant"
	MethodListOwnedRooms      = "ListOwnedRooms"
	MethodListRooms           = "ListRooms"
	MethodSetAccountLocked    = "SetAccountLocked"
	MethodSetAccountEnabled   = "SetAccountEnabled"
)

// FullMethod returns the gRPC path of a Together method.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// TogetherServer is the server API of the Together service.
type TogetherServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Activate(context.Context, *ActivateRequest) (*Empty, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *Empty) (*AccountResponse, error)

	SendFriendRequest(context.Context, *HandleRequest) (*SendFriendRequestResponse, error)
	AcceptFriendRequest(context.Context, *HandleRequest) (*Empty, error)
	RejectFriendRequest(context.Context, *HandleRequest) (*Empty, error)
	ListFriends(context.Context, *ListRequest) (*AccountsResponse, error)
	ListPendingRequests(context.Context, *ListRequest) (*AccountsResponse, error)
	SearchCandidates(context.Context, *SearchRequest) (*AccountsResponse, error)

	CreateRoom(context.Context, *CreateRoomRequest) (*RoomResponse, error)
	DeleteRoom(context.Context, *RoomRequest) (*Empty, error)
	AddParticipant(context.Context, *ParticipantRequest) (*RoomResponse, error)
	RemoveParticipant(context.Context, *ParticipantRequest) (*RoomResponse, error)
	ListOwnedRooms(context.Context, *Empty) (*RoomsResponse, error)
	ListRooms(context.Context, *Empty) (*RoomsResponse, error)

	SetAccountLocked(context.Context, *SetAccountFlagRequest) (*Empty, error)
	SetAccountEnabled(context.Context, *SetAccountFlagRequest) (*Empty, error)
}

// unary builds the method descriptor the way protoc-gen-go-grpc would
// generate it for one rpc.
func unary[Req, Resp any](name string, call func(TogetherServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(TogetherServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TogetherServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, TogetherServer.Register),
		unary(MethodActivate, TogetherServer.Activate),
		unary(MethodLogin, TogetherServer.Login),
		unary(MethodMe, TogetherServer.Me),
		unary(MethodSendFriendRequest, TogetherServer.SendFriendRequest),
		unary(MethodAcceptFriendRequest, TogetherServer.AcceptFriendRequest),
		unary(MethodRejectFriendRequest, TogetherServer.RejectFriendRequest),
		unary(MethodListFriends, TogetherServer.ListFriends),
		unary(MethodListPendingRequests, TogetherServer.ListPendingRequests),
		unary(MethodSearchCandidates, TogetherServer.SearchCandidates),
		unary(MethodCreateRoom, TogetherServer.CreateRoom),
		unary(MethodDeleteRoom, TogetherServer.DeleteRoom),
		unary(MethodAddParticipant, TogetherServer.AddParticipant),
		unary(MethodRemoveParticipant, TogetherServer.RemoveParticipant),
		unary(MethodListOwnedRooms, TogetherServer.ListOwnedRooms),
		unary(MethodListRooms, TogetherServer.ListRooms),
		unary(MethodSetAccountLocked, TogetherServer.SetAccountLocked),
		unary(MethodSetAccountEnabled, TogetherServer.SetAccountEnabled),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "together/v1/together",
}

func RegisterTogetherServer(s grpc.ServiceRegistrar, srv TogetherServer) {
	s.RegisterService(&serviceDesc, srv)
}
