package room

// Media is the stored descriptor of the media a room is currently sharing.
// IsPlaying and Position are meaningful for kind "video" only.
type Media struct {
	URL       string  `redis:"url" json:"url"`
	Kind      string  `redis:"kind" json:"kind"`
	IsPlaying bool    `redis:"is_playing" json:"is_playing"`
	Position  float64 `redis:"position" json:"position"`
}
