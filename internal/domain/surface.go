package domain

// Surface identifies which of the three user-facing areas a record
// belongs to. Each surface keeps its own identity namespace, so the
// same handle may be registered independently on all three.
type Surface string

const (
	SurfaceBoard   Surface = "board"
	SurfaceChat    Surface = "chat"
	SurfacePairing Surface = "pairing"
)

func (s Surface) Valid() bool {
	switch s {
	case SurfaceBoard, SurfaceChat, SurfacePairing:
		return true
	}
	return false
}
