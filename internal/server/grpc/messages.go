package grpc

import (
	"time"

	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type Empty struct{}

type Page struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
}

func (p Page) model() models.Page {
	return models.Page{Offset: p.Offset, Limit: p.Limit}
}

type Account struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Nickname  string   `json:"nickname"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Nickname  string `json:"nickname" validate:"required,min=3,max=32"`
	FirstName string `json:"first_name" validate:"max=64"`
	LastName  string `json:"last_name" validate:"max=64"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
}

type ActivateRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Code      string `json:"code" validate:"required,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type AccountResponse struct {
	Account Account `json:"account"`
}

// HandleRequest addresses another account by nickname.
type HandleRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

type SendFriendRequestResponse struct {
	Outcome string `json:"outcome"`
}

type ListRequest struct {
	Page Page `json:"page"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"max=64"`
	Page  Page   `json:"page"`
}

type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type RoomRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

type ParticipantRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	Nickname string `json:"nickname" validate:"required"`
}

type RoomResponse struct {
	Room Room `json:"room"`
}

type RoomsResponse struct {
	Rooms []Room `json:"rooms"`
}

type SetAccountFlagRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Value     bool   `json:"value"`
}

func toAccount(a models.Account) Account {
	return Account{
		ID:        a.ID,
		Email:     a.Email,
		Nickname:  a.Nickname,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Roles:     a.Roles,
	}
}

func toAccounts(list []models.Account) []Account {
	return lo.Map(list, func(item models.Account, _ int) Account {
		return toAccount(item)
	})
}

func toRoom(r *models.Room) Room {
	return Room{
		ID:           r.ID,
		Name:         r.Name,
		OwnerID:      r.OwnerID,
		Participants: r.Participants.IDs(),
		CreatedAt:    r.CreatedAt,
	}
}

func toRooms(list []*models.Room) []Room {
	return lo.Map(list, func(item *models.Room, _ int) Room {
		return toRoom(item)
	})
}
