package session

// UpdateRoomRequest represents the request to set the room of the current session
type UpdateRoomRequest struct {
	RoomName string `json:"room_name" validate:"required,min=1,max=255"`
}
