package grpc

import (
	"errors"

	"github.com/dmitrijs2005/together/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var statusCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrAccountNotFound, codes.NotFound},
	{common.ErrRequestNotFound, codes.NotFound},
	{common.ErrRoomNotFound, codes.NotFound},
	{common.ErrUserNotInRoom, codes.NotFound},
	{common.ErrSameAccount, codes.InvalidArgument},
	{common.ErrInvalidToken, codes.InvalidArgument},
	{common.ErrAlreadyFriends, codes.AlreadyExists},
	{common.ErrRequestAlreadyExists, codes.AlreadyExists},
	{common.ErrRoomNameTaken, codes.AlreadyExists},
	{common.ErrAlreadyInRoom, codes.AlreadyExists},
	{common.ErrEmailTaken, codes.AlreadyExists},
	{common.ErrNicknameTaken, codes.AlreadyExists},
	{common.ErrAccountAlreadyEnabled, codes.AlreadyExists},
	{common.ErrRequestNotPending, codes.FailedPrecondition},
	{common.ErrNotFriends, codes.FailedPrecondition},
	{common.ErrParticipantIsOwner, codes.FailedPrecondition},
	{common.ErrTokenExpired, codes.FailedPrecondition},
	{common.ErrNotRoomOwner, codes.PermissionDenied},
	{common.ErrAccountDisabled, codes.PermissionDenied},
	{common.ErrAccountLocked, codes.PermissionDenied},
	{common.ErrBadCredentials, codes.Unauthenticated},
}

// toStatus maps a service error to a gRPC status. Errors outside the business
// taxonomy, storage failures included, become Internal without detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range statusCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, m.err.Error())
		}
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

// sessionStatus maps a SessionGate failure. Token problems and a vanished
// subject all read as an invalid token to the caller.
func sessionStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrBadCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrAccountNotFound):
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	case errors.Is(err, common.ErrAccountDisabled),
		errors.Is(err, common.ErrAccountLocked):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
