package room

type AddMemberParams struct {
	MemberId string `json:"member_id"`
	RoomId   string `json:"room_id"`
}

type RemoveMemberParams struct {
	MemberId string `json:"member_id"`
	RoomId   string `json:"room_id"`
}

type SetHostIdParams struct {
	HostId string `json:"host_id"`
	RoomId string `json:"room_id"`
}

type SetMediaParams struct {
	URL       string  `json:"url"`
	Kind      string  `json:"kind"`
	IsPlaying bool    `json:"is_playing"`
	Position  float64 `json:"position"`
	RoomId    string  `json:"room_id"`
}

type UpdatePlaybackParams struct {
	IsPlaying bool    `json:"is_playing"`
	Position  float64 `json:"position"`
	RoomId    string  `json:"room_id"`
}

type UpdatePositionParams struct {
	Position float64 `json:"position"`
	RoomId   string  `json:"room_id"`
}
