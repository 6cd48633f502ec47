package document

import (
	"encoding/json"
	"fmt"

	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// Design is the persisted form of one room plan.
type Design struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Version   int          `json:"version"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
	Room      RoomSettings `json:"room"`
	Walls     []plan.Wall  `json:"walls"`
}

// Texture references an image and how often it tiles across a surface.
type Texture struct {
	URL    string     `json:"url,omitempty"`
	Repeat [2]float64 `json:"repeat"`
}

// RoomSettings are the 3D properties of the room built from the plan.
type RoomSettings struct {
	Width        float64 `json:"width"`
	Length       float64 `json:"length"`
	Height       float64 `json:"height"`
	WallColor    string  `json:"wallColor"`
	FloorColor   string  `json:"floorColor"`
	WallTexture  Texture `json:"wallTexture"`
	FloorTexture Texture `json:"floorTexture"`
}

const (
	MinRoomSide   = 1.0
	MaxRoomSide   = 20.0
	MinRoomHeight = 1.0
	MaxRoomHeight = 5.0

	DefaultWallColor  = "#F5F5F5"
	DefaultFloorColor = "#E0E0E0"
)

// DefaultRoomSettings is a 10×10 m room, 3 m high.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		Width:        10,
		Length:       10,
		Height:       3,
		WallColor:    DefaultWallColor,
		FloorColor:   DefaultFloorColor,
		WallTexture:  Texture{Repeat: [2]float64{4, 2}},
		FloorTexture: Texture{Repeat: [2]float64{4, 4}},
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// Clamp returns s with its dimensions forced into the supported ranges.
// Empty colors fall back to the defaults.
func (s RoomSettings) Clamp() RoomSettings {
	s.Width = clamp(s.Width, MinRoomSide, MaxRoomSide)
	s.Length = clamp(s.Length, MinRoomSide, MaxRoomSide)
	s.Height = clamp(s.Height, MinRoomHeight, MaxRoomHeight)
	if s.WallColor == "" {
		s.WallColor = DefaultWallColor
	}
	if s.FloorColor == "" {
		s.FloorColor = DefaultFloorColor
	}
	return s
}

// Preset is a named starting room.
type Preset struct {
	Name     string       `json:"name"`
	Settings RoomSettings `json:"settings"`
}

var presets = map[string]Preset{
	"living-room": {Name: "Living Room", Settings: RoomSettings{Width: 10, Length: 8, Height: 3, WallColor: "#F5F5F5", FloorColor: "#D2B48C"}},
	"bedroom":     {Name: "Bedroom", Settings: RoomSettings{Width: 8, Length: 10, Height: 2.8, WallColor: "#E0F2F1", FloorColor: "#8D6E63"}},
	"office":      {Name: "Office", Settings: RoomSettings{Width: 7, Length: 6, Height: 2.8, WallColor: "#ECEFF1", FloorColor: "#455A64"}},
}

// LookupPreset returns the preset with the given key, textures defaulted.
func LookupPreset(key string) (Preset, error) {
	p, ok := presets[key]
	if !ok {
		return Preset{}, fmt.Errorf("unknown room preset %q", key)
	}
	def := DefaultRoomSettings()
	p.Settings.WallTexture = def.WallTexture
	p.Settings.FloorTexture = def.FloorTexture
	return p, nil
}

// PresetKeys lists the known presets in a fixed order.
func PresetKeys() []string {
	return []string{"living-room", "bedroom", "office"}
}

// NewEmptyDesign creates a design with default settings and no walls.
// Timestamps are set by the caller.
func NewEmptyDesign(designID, name string) *Design {
	return &Design{
		ID:      designID,
		Name:    name,
		Version: 1,
		Room:    DefaultRoomSettings(),
		Walls:   []plan.Wall{},
	}
}

// Graph loads the design's walls into a new graph.
func (d *Design) Graph(opts ...plan.Option) (*plan.Graph, error) {
	g := plan.NewGraph(opts...)
	if err := g.Load(d.Walls); err != nil {
		return nil, fmt.Errorf("load walls of %s: %w", d.ID, err)
	}
	return g, nil
}

// Parse decodes a design and clamps its room settings.
func Parse(data []byte) (*Design, error) {
	var d Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if d.Walls == nil {
		d.Walls = []plan.Wall{}
	}
	d.Room = d.Room.Clamp()
	return &d, nil
}
