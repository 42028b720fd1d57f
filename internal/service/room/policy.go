package room

// Media and playback control is open to every member, not only the host:
// the UI reserves direct scrubbing to the host, but the protocol does not
// enforce it. Any future host-only restriction goes here, nowhere else.

func (s service) canShareMedia(senderId string) bool {
	return true
}

func (s service) canControlPlayback(senderId string) bool {
	return true
}
