package geom

import (
	"github.com/andreyvit/sdict/fields"
	"github.com/andreyvit/sdict/surrogate"
)

// AddSurrogates registers a surrogate for every type in this package.
func AddSurrogates(r *surrogate.Registry) {
	surrogate.Register(r, captureVector2, restoreVector2)
	surrogate.Register(r, captureVector2Int, restoreVector2Int)
	surrogate.Register(r, captureVector3, restoreVector3)
	surrogate.Register(r, captureVector3Int, restoreVector3Int)
	surrogate.Register(r, captureVector4, restoreVector4)
	surrogate.Register(r, captureQuaternion, restoreQuaternion)
	surrogate.Register(r, captureColor, restoreColor)
}

func captureVector2(v Vector2, fs *fields.Set) {
	fs.Put("x", v.X)
	fs.Put("y", v.Y)
}

func restoreVector2(v Vector2, fs *fields.Set) (Vector2, error) {
	rd := surrogate.Require(fs)
	v.X = rd.Float32("x")
	v.Y = rd.Float32("y")
	return v, rd.Err()
}

func captureVector2Int(v Vector2Int, fs *fields.Set) {
	fs.Put("x", v.X)
	fs.Put("y", v.Y)
}

func restoreVector2Int(v Vector2Int, fs *fields.Set) (Vector2Int, error) {
	rd := surrogate.Require(fs)
	v.X = rd.Int("x")
	v.Y = rd.Int("y")
	return v, rd.Err()
}

func captureVector3(v Vector3, fs *fields.Set) {
	fs.Put("x", v.X)
	fs.Put("y", v.Y)
	fs.Put("z", v.Z)
}

func restoreVector3(v Vector3, fs *fields.Set) (Vector3, error) {
	rd := surrogate.Require(fs)
	v.X = rd.Float32("x")
	v.Y = rd.Float32("y")
	v.Z = rd.Float32("z")
	return v, rd.Err()
}

func captureVector3Int(v Vector3Int, fs *fields.Set) {
	fs.Put("x", v.X)
	fs.Put("y", v.Y)
	fs.Put("z", v.Z)
}

func restoreVector3Int(v Vector3Int, fs *fields.Set) (Vector3Int, error) {
	rd := surrogate.Require(fs)
	v.X = rd.Int("x")
	v.Y = rd.Int("y")
	v.Z = rd.Int("z")
	return v, rd.Err()
}

func captureVector4(v Vector4, fs *fields.Set) {
	fs.Put("x", v.X)
	fs.Put("y", v.Y)
	fs.Put("z", v.Z)
	fs.Put("w", v.W)
}

func restoreVector4(v Vector4, fs *fields.Set) (Vector4, error) {
	rd := surrogate.Require(fs)
	v.X = rd.Float32("x")
	v.Y = rd.Float32("y")
	v.Z = rd.Float32("z")
	v.W = rd.Float32("w")
	return v, rd.Err()
}

func captureQuaternion(q Quaternion, fs *fields.Set) {
	fs.Put("x", q.X)
	fs.Put("y", q.Y)
	fs.Put("z", q.Z)
	fs.Put("w", q.W)
}

func restoreQuaternion(q Quaternion, fs *fields.Set) (Quaternion, error) {
	rd := surrogate.Require(fs)
	q.X = rd.Float32("x")
	q.Y = rd.Float32("y")
	q.Z = rd.Float32("z")
	q.W = rd.Float32("w")
	return q, rd.Err()
}

func captureColor(c Color, fs *fields.Set) {
	fs.Put("r", c.R)
	fs.Put("g", c.G)
	fs.Put("b", c.B)
	fs.Put("a", c.A)
}

func restoreColor(c Color, fs *fields.Set) (Color, error) {
	rd := surrogate.Require(fs)
	c.R = rd.Float32("r")
	c.G = rd.Float32("g")
	c.B = rd.Float32("b")
	c.A = rd.Float32("a")
	return c, rd.Err()
}
