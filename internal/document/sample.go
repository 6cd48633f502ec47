package document

import (
	"time"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/typeid"
)

// NewSampleDesign returns a closed L-shaped room used by the playground and
// as a fixture.
func NewSampleDesign(designID string) *Design {
	now := time.Now().UTC().Format(time.RFC3339)

	corners := []geom.Point{
		geom.Pt(-4, -3),
		geom.Pt(4, -3),
		geom.Pt(4, 1),
		geom.Pt(0, 1),
		geom.Pt(0, 3),
		geom.Pt(-4, 3),
	}
	walls := make([]plan.Wall, 0, len(corners))
	for i, c := range corners {
		walls = append(walls, plan.Wall{
			ID:    typeid.NewWallID(),
			Start: c,
			End:   corners[(i+1)%len(corners)],
		})
	}

	room := DefaultRoomSettings()
	room.Width = 8
	room.Length = 6

	return &Design{
		ID:        designID,
		Name:      "Sample L-shaped room",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		Room:      room,
		Walls:     walls,
	}
}
