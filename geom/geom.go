// Package geom defines small value types (vectors, rotations, colors) that
// the sdict formatter cannot persist on its own, and the surrogates that let
// it persist them anyway.
package geom

type Vector2 struct {
	X, Y float32
}

type Vector2Int struct {
	X, Y int
}

type Vector3 struct {
	X, Y, Z float32
}

type Vector3Int struct {
	X, Y, Z int
}

type Vector4 struct {
	X, Y, Z, W float32
}

type Quaternion struct {
	X, Y, Z, W float32
}

// Identity is the rotation that leaves vectors unchanged.
var Identity = Quaternion{0, 0, 0, 1}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Clear = Color{0, 0, 0, 0}
)
