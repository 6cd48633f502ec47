package document

import (
	"encoding/json"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/topology"
)

func TestRoomSettingsClamp(t *testing.T) {
	tests := []struct {
		name string
		in   RoomSettings
		want RoomSettings
	}{
		{
			"too small",
			RoomSettings{Width: 0.2, Length: -3, Height: 0.5},
			RoomSettings{Width: 1, Length: 1, Height: 1, WallColor: DefaultWallColor, FloorColor: DefaultFloorColor},
		},
		{
			"too large",
			RoomSettings{Width: 40, Length: 21, Height: 9, WallColor: "#000000", FloorColor: "#111111"},
			RoomSettings{Width: 20, Length: 20, Height: 5, WallColor: "#000000", FloorColor: "#111111"},
		},
		{
			"in range",
			RoomSettings{Width: 6, Length: 4, Height: 2.5, WallColor: "#ABCDEF", FloorColor: "#123456"},
			RoomSettings{Width: 6, Length: 4, Height: 2.5, WallColor: "#ABCDEF", FloorColor: "#123456"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLookupPreset(t *testing.T) {
	for _, key := range PresetKeys() {
		p, err := LookupPreset(key)
		if err != nil {
			t.Fatalf("LookupPreset(%q): %v", key, err)
		}
		if p.Settings.Clamp() != p.Settings {
			t.Errorf("preset %q is outside the clamp ranges: %+v", key, p.Settings)
		}
		if p.Settings.FloorTexture.Repeat != [2]float64{4, 4} {
			t.Errorf("preset %q floor texture = %v", key, p.Settings.FloorTexture.Repeat)
		}
	}
	bed, _ := LookupPreset("bedroom")
	if bed.Settings.Width != 8 || bed.Settings.Length != 10 || bed.Settings.Height != 2.8 {
		t.Errorf("bedroom = %+v", bed.Settings)
	}
	if _, err := LookupPreset("garage"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestSampleDesignIsClosed(t *testing.T) {
	d := NewSampleDesign("design_sample")
	g, err := d.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	res := topology.Analyze(g.Walls())
	if !res.Closed || len(res.Boundary) != 6 || res.Err != nil {
		t.Errorf("sample analysis = %+v", res)
	}
}

func TestParseClampsAndDefaultsWalls(t *testing.T) {
	d, err := Parse([]byte(`{"id":"design_x","name":"x","room":{"width":50,"length":4,"height":3}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Room.Width != MaxRoomSide {
		t.Errorf("width = %v, want %v", d.Room.Width, MaxRoomSide)
	}
	if d.Walls == nil {
		t.Error("walls should default to an empty list")
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if _, ok := back["walls"].([]any); !ok {
		t.Errorf("walls encoded as %T, want array", back["walls"])
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte(`{"walls":`)); err == nil {
		t.Error("expected decode error")
	}
}
