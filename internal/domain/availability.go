package domain

// IsRoomFree reports whether no active reservation for the room intersects the
// half-open range [checkIn, checkOut). Reservations for other rooms and
// reservations in terminal states are ignored.
func IsRoomFree(roomID int64, checkIn, checkOut Date, existing []*Reservation) bool {
	for _, res := range existing {
		if res.RoomID != roomID || !res.IsActive() {
			continue
		}
		if res.Overlaps(checkIn, checkOut) {
			return false
		}
	}
	return true
}

// FilterAvailable returns the rooms from the candidate list that are free for
// the requested range, preserving the candidates' order. The caller supplies
// candidates already filtered by capacity and the administrative availability
// flag (RoomRepository.ListCandidates).
func FilterAvailable(candidates []*Room, checkIn, checkOut Date, active []*Reservation) []*Room {
	free := make([]*Room, 0, len(candidates))
	for _, room := range candidates {
		if IsRoomFree(room.ID, checkIn, checkOut, active) {
			free = append(free, room)
		}
	}
	return free
}
