package httpUsecase

// RoomRegistry is the read side of the room registry the HTTP routes need.
type RoomRegistry interface {
	Stats() (rooms, users int)
}
