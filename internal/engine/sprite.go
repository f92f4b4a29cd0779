package engine

// EntityKind identifies what an EntityState describes.
type EntityKind int

const (
	EntityPlayer EntityKind = iota
	EntityPlatform
)

// String returns the kind name used in logs.
func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// EntityState is the public state handed to a sprite after each step.
// Coordinates are world space; the renderer applies the camera itself.
type EntityState struct {
	Kind          EntityKind
	Index         int // Pool slot for platforms, 0 for the player
	X, Y          float64
	Width, Height float64
	Visible       bool
	Vanishing     bool
	// VanishProgress is the fraction of the vanish timer left (1 = untouched).
	VanishProgress float64
}

// Sprite is a drawable owned by the rendering layer. The engine only pushes
// state into it and never reads it back.
type Sprite interface {
	Update(state EntityState) error
}

// Renderer creates sprites and receives camera changes.
type Renderer interface {
	NewPlayerSprite() (Sprite, error)
	NewPlatformSprite() (Sprite, error)
	SetCamera(offset float64)
	Clear()
}

// updateSprite pushes state into s, rejecting a missing sprite.
func updateSprite(s Sprite, state EntityState) error {
	if s == nil {
		return ErrSpriteUpdateInvalid
	}
	return s.Update(state)
}

func playerState(p Player) EntityState {
	return EntityState{
		Kind:           EntityPlayer,
		X:              p.X,
		Y:              p.Y,
		Width:          p.Width,
		Height:         p.Height,
		Visible:        true,
		VanishProgress: 1,
	}
}

func platformState(i int, p Platform) EntityState {
	return EntityState{
		Kind:           EntityPlatform,
		Index:          i,
		X:              p.X,
		Y:              p.Y,
		Width:          p.Width,
		Height:         p.Height,
		Visible:        p.Active,
		Vanishing:      p.Active && p.VanishTriggered,
		VanishProgress: p.VanishProgress(),
	}
}
