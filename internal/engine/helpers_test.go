package engine

import "github.com/vovakirdan/skyline-sprint/internal/config"

const testStep = 1.0 / 60

// fakeWorld is a WorldView with directly controlled speed and time.
type fakeWorld struct {
	speed   float64
	elapsed float64
}

func (f *fakeWorld) Speed() float64 { return f.speed }
func (f *fakeWorld) Elapsed() float64 { return f.elapsed }

func (f *fakeWorld) LaneCenter(i int) float64 {
	return config.DefaultRunnerConfig().World.Lanes[i]
}

func (f *fakeWorld) IsVisible(pos float64) bool {
	return pos >= -4 && pos <= 70
}

func testObstacle(cfg config.RunnerConfig, id uint64, typ ObstacleType, lane int, pos float64) Obstacle {
	shape := cfg.Shapes.Slice()[typ]
	return Obstacle{
		ID:       id,
		Type:     typ,
		Lane:     lane,
		Position: pos,
		Depth:    shape.Depth,
		Box:      shapeBox(shape, cfg.World.Lanes[lane], cfg.Spawner.Margin),
	}
}

func testPickup(cfg config.RunnerConfig, id uint64, kind PickupKind, lane int, pos float64) Pickup {
	return Pickup{
		ID:       id,
		Kind:     kind,
		Lane:     lane,
		Position: pos,
		Depth:    cfg.Pickups.Shape.Depth,
		Box:      shapeBox(cfg.Pickups.Shape, cfg.World.Lanes[lane], 0),
	}
}
