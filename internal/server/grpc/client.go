package grpc

import (
	"context"

	"github.com/dmitrijs2005/together/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client is a typed caller of the Together service over the JSON codec.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// WithAccessToken attaches a session token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, MethodRegister, in, opts...)
}

func (c *Client) Activate(ctx context.Context, in *ActivateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodActivate, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, MethodLogin, in, opts...)
}

func (c *Client) Me(ctx context.Context, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c, MethodMe, &Empty{}, opts...)
}

func (c *Client) SendFriendRequest(ctx context.Context, in *HandleRequest, opts ...grpc.CallOption) (*SendFriendRequestResponse, error) {
	return invoke[SendFriendRequestResponse](ctx, c, MethodSendFriendRequest, in, opts...)
}

func (c *Client) AcceptFriendRequest(ctx context.Context, in *HandleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodAcceptFriendRequest, in, opts...)
}

func (c *Client) RejectFriendRequest(ctx context.Context, in *HandleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodRejectFriendRequest, in, opts...)
}

func (c *Client) ListFriends(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*AccountsResponse, error) {
	return invoke[AccountsResponse](ctx, c, MethodListFriends, in, opts...)
}

func (c *Client) ListPendingRequests(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*AccountsResponse, error) {
	return invoke[AccountsResponse](ctx, c, MethodListPendingRequests, in, opts...)
}

func (c *Client) SearchCandidates(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*AccountsResponse, error) {
	return invoke[AccountsResponse](ctx, c, MethodSearchCandidates, in, opts...)
}

func (c *Client) CreateRoom(ctx context.Context, in *CreateRoomRequest, opts ...grpc.CallOption) (*RoomResponse, error) {
	return invoke[RoomResponse](ctx, c, MethodCreateRoom, in, opts...)
}

func (c *Client) DeleteRoom(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodDeleteRoom, in, opts...)
}

func (c *Client) AddParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*RoomResponse, error) {
	return invoke[RoomResponse](ctx, c, MethodAddParticipant, in, opts...)
}

func (c *Client) RemoveParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*RoomResponse, error) {
	return invoke[RoomResponse](ctx, c, MethodRemoveParticipant, in, opts...)
}

func (c *Client) ListOwnedRooms(ctx context.Context, opts ...grpc.CallOption) (*RoomsResponse, error) {
	return invoke[RoomsResponse](ctx, c, MethodListOwnedRooms, &Empty{}, opts...)
}

func (c *Client) ListRooms(ctx context.Context, opts ...grpc.CallOption) (*RoomsResponse, error) {
	return invoke[RoomsResponse](ctx, c, MethodListRooms, &Empty{}, opts...)
}

func (c *Client) SetAccountLocked(ctx context.Context, in *SetAccountFlagRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodSetAccountLocked, in, opts...)
}

func (c *Client) SetAccountEnabled(ctx context.Context, in *SetAccountFlagRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodSetAccountEnabled, in, opts...)
}
