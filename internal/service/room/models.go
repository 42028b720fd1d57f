package room

type Member struct {
	Id     string `json:"id"`
	IsHost bool   `json:"is_host"`
}

type Media struct {
	URL       string  `json:"url"`
	Kind      string  `json:"kind"`
	IsPlaying bool    `json:"is_playing"`
	Position  float64 `json:"position"`
}

type RoomSnapshot struct {
	MemberCount int  `json:"member_count"`
	HasMedia    bool `json:"has_media"`
}

type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}
